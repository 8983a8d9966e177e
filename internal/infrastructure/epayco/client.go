package epayco

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Transaction states reported by ePayco webhooks
const (
	StateAccepted = "Aceptada"
	StateRejected = "Rechazada"
	StatePending  = "Pendiente"
	StateFailed   = "Fallida"
)

// Config holds ePayco API configuration
type Config struct {
	PublicKey string // p_cust_id / public key
	APIKey    string // private key, used for signatures
	BaseURL   string // apify endpoint (sandbox or production)
	NotifyURL string // webhook URL for payment confirmations
}

// Client is the ePayco API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// CheckoutResponse represents a created hosted-checkout session
type CheckoutResponse struct {
	SessionID   string
	CheckoutURL string
	ExpiresAt   time.Time
}

// Notification is the confirmation payload ePayco posts to the webhook
type Notification struct {
	RefPayco         string `json:"x_ref_payco" form:"x_ref_payco"`
	TransactionID    string `json:"x_transaction_id" form:"x_transaction_id"`
	Reference        string `json:"x_id_invoice" form:"x_id_invoice"` // our reservation reference
	Amount           int64  `json:"x_amount" form:"x_amount"`
	CurrencyCode     string `json:"x_currency_code" form:"x_currency_code"`
	TransactionState string `json:"x_transaction_state" form:"x_transaction_state"`
	Signature        string `json:"x_signature" form:"x_signature"`
}

// Approved reports whether the notification confirms a captured payment
func (n Notification) Approved() bool {
	return n.TransactionState == StateAccepted
}

// checkoutRequest is the session-creation request body
type checkoutRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Invoice      string `json:"invoice"`
	Currency     string `json:"currency"`
	Amount       int64  `json:"amount"`
	Country      string `json:"country"`
	Test         bool   `json:"test"`
	Response     string `json:"response"`
	Confirmation string `json:"confirmation"`
	Email        string `json:"email"`
}

// checkoutAPIResponse is the session-creation response body
type checkoutAPIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"titleResponse"`
	Data    struct {
		SessionID   string `json:"sessionId"`
		CheckoutURL string `json:"routeCheckout"`
		Expiration  string `json:"expiration"`
	} `json:"data"`
}

// NewClient creates a new ePayco client
func NewClient(cfg Config) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateCheckout opens a hosted checkout session for a reservation.
// Amounts are whole COP.
func (c *Client) CreateCheckout(ctx context.Context, reference string, amount int64, email string) (*CheckoutResponse, error) {
	url := c.config.BaseURL + "/payment/session/create"

	reqBody := checkoutRequest{
		Name:         "Reserva VivoTour",
		Description:  fmt.Sprintf("Reserva %s", reference),
		Invoice:      reference,
		Currency:     "COP",
		Amount:       amount,
		Country:      "CO",
		Response:     c.config.NotifyURL,
		Confirmation: c.config.NotifyURL,
		Email:        email,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	log.Printf("[ePayco] Creating session for %s, amount: %d COP", reference, amount)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ePayco API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var apiResp checkoutAPIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !apiResp.Success {
		return nil, fmt.Errorf("ePayco API error: %s", apiResp.Message)
	}

	expiresAt, _ := time.Parse(time.RFC3339, apiResp.Data.Expiration)
	if expiresAt.IsZero() {
		expiresAt = time.Now().UTC().Add(24 * time.Hour)
	}

	return &CheckoutResponse{
		SessionID:   apiResp.Data.SessionID,
		CheckoutURL: apiResp.Data.CheckoutURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// VerifySignature validates a webhook notification.
// signature = lowercase(hmacSha256(apiKey, publicKey^refPayco^transactionId^amount^currency))
func (c *Client) VerifySignature(n Notification) bool {
	stringToSign := fmt.Sprintf("%s^%s^%s^%d^%s",
		c.config.PublicKey, n.RefPayco, n.TransactionID, n.Amount, n.CurrencyCode)

	h := hmac.New(sha256.New, []byte(c.config.APIKey))
	h.Write([]byte(stringToSign))
	expected := strings.ToLower(hex.EncodeToString(h.Sum(nil)))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(n.Signature)))
}
