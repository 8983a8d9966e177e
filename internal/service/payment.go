package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/vivotour/vivotour/internal/config"
	"github.com/vivotour/vivotour/internal/infrastructure/epayco"
)

// CheckoutSession represents a payment session created at the gateway
type CheckoutSession struct {
	SessionID   string
	CheckoutURL string
	ExpiresAt   time.Time
}

// PaymentProvider defines the interface for payment gateway integrations
type PaymentProvider interface {
	// CreateSession opens a hosted checkout for the given reservation
	// reference and amount (COP).
	CreateSession(ctx context.Context, reference string, amount int64, guestEmail string) (*CheckoutSession, error)
	// VerifyNotification validates a webhook signature
	VerifyNotification(n epayco.Notification) bool
}

// MockPaymentProvider is used in development when no gateway credentials
// are configured. Every notification verifies.
type MockPaymentProvider struct{}

// EpaycoAdapter adapts the epayco.Client to PaymentProvider
type EpaycoAdapter struct {
	client *epayco.Client
}

// NewPaymentProvider returns the appropriate PaymentProvider based on config.
// If no API key is configured, returns a mock provider for development.
func NewPaymentProvider(cfg config.PaymentConfig) PaymentProvider {
	if cfg.APIKey == "" || cfg.PublicKey == "" {
		log.Println("[Payment] Using mock ePayco provider (no credentials configured)")
		return &MockPaymentProvider{}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://apify.epayco.co"
	}

	webhookURL := ""
	if cfg.NotifyURL != "" {
		webhookURL = cfg.NotifyURL + "/v1/payments/webhook/epayco"
	}

	log.Printf("[Payment] Using ePayco provider (base: %s, notify: %s)", baseURL, webhookURL)
	return &EpaycoAdapter{client: epayco.NewClient(epayco.Config{
		PublicKey: cfg.PublicKey,
		APIKey:    cfg.APIKey,
		BaseURL:   baseURL,
		NotifyURL: webhookURL,
	})}
}

// CreateSession generates a mock checkout session
func (m *MockPaymentProvider) CreateSession(ctx context.Context, reference string, amount int64, guestEmail string) (*CheckoutSession, error) {
	sessionID := ulid.Make().String()
	return &CheckoutSession{
		SessionID:   sessionID,
		CheckoutURL: fmt.Sprintf("https://checkout.mock.local/%s?ref=%s&amount=%d", sessionID, reference, amount),
		ExpiresAt:   time.Now().UTC().Add(24 * time.Hour),
	}, nil
}

// VerifyNotification always accepts in mock mode
func (m *MockPaymentProvider) VerifyNotification(n epayco.Notification) bool {
	return true
}

// CreateSession opens a real hosted checkout via the ePayco API
func (a *EpaycoAdapter) CreateSession(ctx context.Context, reference string, amount int64, guestEmail string) (*CheckoutSession, error) {
	resp, err := a.client.CreateCheckout(ctx, reference, amount, guestEmail)
	if err != nil {
		log.Printf("[Payment] ePayco API error: %v", err)
		return nil, fmt.Errorf("payment provider error: %w", err)
	}
	return &CheckoutSession{
		SessionID:   resp.SessionID,
		CheckoutURL: resp.CheckoutURL,
		ExpiresAt:   resp.ExpiresAt,
	}, nil
}

// VerifyNotification checks the webhook signature against our keys
func (a *EpaycoAdapter) VerifyNotification(n epayco.Notification) bool {
	return a.client.VerifySignature(n)
}
