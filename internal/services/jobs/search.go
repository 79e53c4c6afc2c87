package jobs

import (
	"context"
	"strconv"
	"strings"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

const maxSearchPerPage = 100

// SearchQuery holds the raw query-string values of a job search.
type SearchQuery struct {
	Skill     string
	Title     string
	MinBudget string
	MaxBudget string
	FromDate  string
	ToDate    string
	Sort      string
	Direction string
	PerPage   int
	Page      int
}

// Search lists open jobs matching every filter given. An unknown sort key falls
// back to newest first; any direction other than "desc" sorts ascending.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Listing, repository.Meta, error) {
	errs := apperr.FieldErrors{}
	f := repository.JobSearch{
		Skill: strings.TrimSpace(q.Skill),
		Title: strings.TrimSpace(q.Title),
	}

	f.MinBudget = parseAmount(errs, "min_budget", q.MinBudget)
	f.MaxBudget = parseAmount(errs, "max_budget", q.MaxBudget)

	if raw := strings.TrimSpace(q.FromDate); raw != "" {
		if t, ok := ParseDate(raw); ok {
			f.From = &t
		} else {
			errs.Add("from_date", "The from date is not a valid date.")
		}
	}
	if raw := strings.TrimSpace(q.ToDate); raw != "" {
		if t, ok := ParseDate(raw); ok {
			// a bare date includes the whole day
			if len(raw) == len("2006-01-02") {
				t = t.AddDate(0, 0, 1)
			}
			f.To = &t
		} else {
			errs.Add("to_date", "The to date is not a valid date.")
		}
	}
	if errs.Any() {
		return nil, repository.Meta{}, apperr.Invalid(errs)
	}

	if repository.IsJobSortKey(q.Sort) {
		f.Sort = q.Sort
		f.Desc = strings.EqualFold(q.Direction, "desc")
	}

	jobs, meta, err := s.Store.Jobs.Search(ctx, f, repository.NewPage(q.Page, q.PerPage, perPage, maxSearchPerPage))
	if err != nil {
		return nil, meta, err
	}
	listings, err := s.withCounts(ctx, jobs)
	return listings, meta, err
}

func parseAmount(errs apperr.FieldErrors, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" must be a number.")
		return nil
	}
	if v < 0 {
		errs.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" must be at least 0.")
		return nil
	}
	return &v
}
