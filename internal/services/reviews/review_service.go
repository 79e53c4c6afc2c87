package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

const perPage = 10

type Service struct {
	Store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{Store: store}
}

type CreateInput struct {
	JobID      string             `json:"job_id"`
	Rating     *float64           `json:"rating"`
	Comment    string             `json:"comment"`
	Categories map[string]float64 `json:"categories"`
}

// Summary is a user's public rating. AverageRating is rounded to one decimal and
// nil when the user has not been reviewed.
type Summary struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Role          models.Role `json:"role"`
	AverageRating *float64    `json:"average_rating"`
	TotalReviews  int64       `json:"total_reviews"`
}

// ListMeta extends the page meta with the reviewee's rating.
type ListMeta struct {
	repository.Meta
	AverageRating *float64 `json:"average_rating"`
	TotalReviews  int64    `json:"total_reviews"`
}

func (s *Service) UserSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	u, err := s.Store.Users.FindByID(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	sum, err := s.Store.Reviews.Summary(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		ID:            u.ID,
		Name:          u.Name,
		Role:          u.Role,
		AverageRating: round1(sum.Average),
		TotalReviews:  sum.Total,
	}, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page int) ([]models.Review, ListMeta, error) {
	ok, err := s.Store.Users.Exists(ctx, userID)
	if err != nil {
		return nil, ListMeta{}, err
	}
	if !ok {
		return nil, ListMeta{}, apperr.NotFound("User not found")
	}

	list, meta, err := s.Store.Reviews.ListForReviewee(ctx, userID, repository.NewPage(page, perPage, perPage, perPage))
	if err != nil {
		return nil, ListMeta{}, err
	}
	sum, err := s.Store.Reviews.Summary(ctx, userID)
	if err != nil {
		return nil, ListMeta{}, err
	}
	return list, ListMeta{Meta: meta, AverageRating: round1(sum.Average), TotalReviews: sum.Total}, nil
}

// Create records actor's review of revieweeID for a completed job. Only the two
// parties of the job may review each other, once per job.
func (s *Service) Create(ctx context.Context, actor models.Actor, revieweeID uuid.UUID, in CreateInput) (*models.Review, error) {
	errs := apperr.FieldErrors{}
	jobID, err := uuid.Parse(strings.TrimSpace(in.JobID))
	if strings.TrimSpace(in.JobID) == "" {
		errs.Add("job_id", "The job id field is required.")
	} else if err != nil {
		errs.Add("job_id", "The selected job id is invalid.")
	}
	if in.Rating == nil {
		errs.Add("rating", "The rating field is required.")
	} else if !isScore(*in.Rating) {
		errs.Add("rating", "The rating must be an integer between 1 and 5.")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		errs.Add("comment", "The comment field is required.")
	} else if len([]rune(comment)) > 1000 {
		errs.Add("comment", "The comment may not be greater than 1000 characters.")
	}
	if len(in.Categories) == 0 {
		errs.Add("categories", "The categories field is required.")
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	job, err := s.Store.Jobs.FindByID(ctx, jobID)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Job not found")
	}
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusCompleted {
		return nil, apperr.Forbidden("Cannot review before job completion")
	}

	var developerID uuid.UUID
	accepted, err := s.Store.Applications.AcceptedForJob(ctx, job.ID)
	switch {
	case err == nil:
		developerID = accepted.UserID
	case !repository.IsNotFound(err):
		return nil, err
	}

	isClient := job.OwnedBy(actor.ID)
	isDeveloper := developerID != uuid.Nil && developerID == actor.ID
	if !isClient && !isDeveloper {
		return nil, apperr.Forbidden("You are not authorized to review this job")
	}

	categories := models.DeveloperReviewCategories
	counterparty := job.ClientID
	if isClient {
		categories = models.ClientReviewCategories
		counterparty = developerID
	}
	if counterparty == uuid.Nil || revieweeID != counterparty {
		return nil, apperr.Forbidden("Invalid reviewee")
	}

	for _, key := range categories {
		v, ok := in.Categories[key]
		field := "categories." + key
		if !ok {
			errs.Add(field, "The "+field+" field is required.")
		} else if !isScore(v) {
			errs.Add(field, "The "+field+" must be an integer between 1 and 5.")
		}
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	exists, err := s.Store.Reviews.Exists(ctx, actor.ID, revieweeID, job.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.InvalidField("review", "You have already reviewed this user for this job")
	}

	scores := make(map[string]int, len(categories))
	for _, key := range categories {
		scores[key] = int(in.Categories[key])
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return nil, err
	}

	rv := models.Review{
		ReviewerID: actor.ID,
		RevieweeID: revieweeID,
		JobID:      job.ID,
		Rating:     int(*in.Rating),
		Comment:    comment,
		Categories: datatypes.JSON(raw),
	}
	if err := s.Store.Reviews.Create(ctx, &rv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidField("review", "You have already reviewed this user for this job")
		}
		return nil, err
	}
	return &rv, nil
}

func isScore(v float64) bool {
	return v == math.Trunc(v) && v >= 1 && v <= 5
}

func round1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*10) / 10
	return &r
}
