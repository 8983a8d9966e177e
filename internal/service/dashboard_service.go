package service

import (
	"context"
	"fmt"

	"github.com/vivotour/vivotour/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DashboardService aggregates counts for the admin dashboard landing page
type DashboardService struct {
	planRepo        domain.PlanRepository
	reservationRepo domain.ReservationRepository
	commentRepo     domain.CommentRepository
	userRepo        domain.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	planRepo domain.PlanRepository,
	reservationRepo domain.ReservationRepository,
	commentRepo domain.CommentRepository,
	userRepo domain.UserRepository,
) *DashboardService {
	return &DashboardService{
		planRepo:        planRepo,
		reservationRepo: reservationRepo,
		commentRepo:     commentRepo,
		userRepo:        userRepo,
	}
}

// DashboardSummary is the admin landing-page aggregate
type DashboardSummary struct {
	ActivePlans           int   `json:"active_plans"`
	PendingReservations   int64 `json:"pending_reservations"`
	ConfirmedReservations int64 `json:"confirmed_reservations"`
	PendingComments       int   `json:"pending_comments"`
	RegisteredUsers       int   `json:"registered_users"`
	RevenueCOP            int64 `json:"revenue_cop"`
}

// GetSummary fans the independent queries out concurrently
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		plans, err := s.planRepo.GetActivePlans(ctx)
		if err != nil {
			return fmt.Errorf("failed to count plans: %w", err)
		}
		summary.ActivePlans = len(plans)
		return nil
	})

	g.Go(func() error {
		count, err := s.reservationRepo.CountByStatus(ctx, domain.ReservationStatusPending)
		if err != nil {
			return fmt.Errorf("failed to count pending reservations: %w", err)
		}
		summary.PendingReservations = count
		return nil
	})

	g.Go(func() error {
		count, err := s.reservationRepo.CountByStatus(ctx, domain.ReservationStatusConfirmed)
		if err != nil {
			return fmt.Errorf("failed to count confirmed reservations: %w", err)
		}
		summary.ConfirmedReservations = count
		return nil
	})

	g.Go(func() error {
		comments, err := s.commentRepo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}
		for _, c := range comments {
			if !c.Approved {
				summary.PendingComments++
			}
		}
		return nil
	})

	g.Go(func() error {
		users, err := s.userRepo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		summary.RegisteredUsers = len(users)
		return nil
	})

	g.Go(func() error {
		revenue, err := s.reservationRepo.SumPaidAmount(ctx)
		if err != nil {
			return fmt.Errorf("failed to sum revenue: %w", err)
		}
		summary.RevenueCOP = revenue
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
