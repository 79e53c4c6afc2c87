package admin

import (
	"context"
	"math"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

type Stats struct {
	TotalUsers          int64   `json:"total_users"`
	TotalJobs           int64   `json:"total_jobs"`
	ActiveJobs          int64   `json:"active_jobs"`
	CompletedJobs       int64   `json:"completed_jobs"`
	TotalPaymentsAmount float64 `json:"total_payments_amount"`
}

type Service struct {
	Store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{Store: store}
}

// Dashboard counts users and jobs; open jobs count as active.
func (s *Service) Dashboard(ctx context.Context) (Stats, error) {
	var out Stats
	users, err := s.Store.Users.Count(ctx)
	if err != nil {
		return out, err
	}
	jobs, err := s.Store.Jobs.Stats(ctx)
	if err != nil {
		return out, err
	}
	total, err := s.Store.Payments.TotalAmount(ctx)
	if err != nil {
		return out, err
	}

	out.TotalUsers = users
	out.TotalJobs = jobs.Total
	out.ActiveJobs = jobs.Open
	out.CompletedJobs = jobs.Completed
	out.TotalPaymentsAmount = math.Round(total*100) / 100
	return out, nil
}
