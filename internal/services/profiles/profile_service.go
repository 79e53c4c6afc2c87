package profiles

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

type Service struct {
	Store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{Store: store}
}

type PortfolioInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
}

// Input is the full editable state of a profile; updates replace everything.
type Input struct {
	Title          string           `json:"title"`
	Bio            string           `json:"bio"`
	HourlyRate     *float64         `json:"hourly_rate"`
	Skills         []string         `json:"skills"`
	PortfolioItems []PortfolioInput `json:"portfolio_items"`
	GithubURL      string           `json:"github_url"`
	LinkedinURL    string           `json:"linkedin_url"`
	Phone          string           `json:"phone"`
}

type PrivacyInput struct {
	EmailVisible *bool `json:"email_visible"`
	PhoneVisible *bool `json:"phone_visible"`
}

type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PublicProfile is what other users see. Email and Phone are nil unless the
// viewer owns the profile or the owner made them visible.
type PublicProfile struct {
	ID             uuid.UUID              `json:"id"`
	Title          string                 `json:"title"`
	Bio            string                 `json:"bio"`
	HourlyRate     float64                `json:"hourly_rate"`
	Skills         []string               `json:"skills"`
	Email          *string                `json:"email"`
	Phone          *string                `json:"phone"`
	GithubURL      string                 `json:"github_url"`
	LinkedinURL    string                 `json:"linkedin_url"`
	PortfolioItems []models.PortfolioItem `json:"portfolio_items"`
	User           UserRef                `json:"user"`
}

type SearchResult struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Bio        string    `json:"bio"`
	HourlyRate float64   `json:"hourly_rate"`
	Skills     []string  `json:"skills"`
	User       UserRef   `json:"user"`
}

func (s *Service) Mine(ctx context.Context, actor models.Actor) (*models.DeveloperProfile, error) {
	p, err := s.Store.Profiles.FindByUserID(ctx, actor.ID)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Profile not found")
	}
	return p, err
}

func (s *Service) Create(ctx context.Context, actor models.Actor, in Input) (*models.DeveloperProfile, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if !actor.Is(models.RoleDeveloper) {
		return nil, apperr.Forbidden("Unauthorized")
	}

	exists, err := s.Store.Profiles.ExistsForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.InvalidField("profile", "You already have a developer profile")
	}

	p := models.DeveloperProfile{UserID: actor.ID}
	apply(&p, in)
	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Profiles.Create(ctx, &p); err != nil {
			return err
		}
		return replaceChildren(ctx, tx, &p, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Store.Profiles.FindByID(ctx, p.ID)
}

func (s *Service) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in Input) (*models.DeveloperProfile, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	apply(p, in)
	err = s.Store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Profiles.Save(ctx, p); err != nil {
			return err
		}
		return replaceChildren(ctx, tx, p, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Store.Profiles.FindByID(ctx, p.ID)
}

func (s *Service) UpdatePrivacy(ctx context.Context, actor models.Actor, id uuid.UUID, in PrivacyInput) (*models.DeveloperProfile, error) {
	errs := apperr.FieldErrors{}
	if in.EmailVisible == nil {
		errs.Add("email_visible", "The email visible field is required.")
	}
	if in.PhoneVisible == nil {
		errs.Add("phone_visible", "The phone visible field is required.")
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Profiles.UpdatePrivacy(ctx, p, *in.EmailVisible, *in.PhoneVisible); err != nil {
		return nil, err
	}
	return p, nil
}

// Show renders a profile for viewer, hiding contact details the owner keeps private.
func (s *Service) Show(ctx context.Context, viewer models.Actor, id uuid.UUID) (*PublicProfile, error) {
	p, err := s.Store.Profiles.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Profile not found")
	}
	if err != nil {
		return nil, err
	}

	owner := p.UserID == viewer.ID
	out := &PublicProfile{
		ID:             p.ID,
		Title:          p.Title,
		Bio:            p.Bio,
		HourlyRate:     p.HourlyRate,
		Skills:         skillNames(p.Skills),
		GithubURL:      p.GithubURL,
		LinkedinURL:    p.LinkedinURL,
		PortfolioItems: p.PortfolioItems,
	}
	if p.User != nil {
		out.User = UserRef{ID: p.User.ID, Name: p.User.Name}
		if owner || p.EmailVisible {
			email := p.User.Email
			out.Email = &email
		}
	}
	if (owner || p.PhoneVisible) && p.Phone != "" {
		phone := p.Phone
		out.Phone = &phone
	}
	return out, nil
}

func (s *Service) Search(ctx context.Context, skill string) ([]SearchResult, error) {
	list, err := s.Store.Profiles.SearchBySkill(ctx, strings.TrimSpace(skill))
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(list))
	for _, p := range list {
		r := SearchResult{
			ID:         p.ID,
			Title:      p.Title,
			Bio:        p.Bio,
			HourlyRate: p.HourlyRate,
			Skills:     skillNames(p.Skills),
		}
		if p.User != nil {
			r.User = UserRef{ID: p.User.ID, Name: p.User.Name}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.DeveloperProfile, error) {
	p, err := s.Store.Profiles.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Profile not found")
	}
	if err != nil {
		return nil, err
	}
	if !actor.Is(models.RoleDeveloper) || p.UserID != actor.ID {
		return nil, apperr.Forbidden("Unauthorized")
	}
	return p, nil
}

func validate(in Input) error {
	errs := apperr.FieldErrors{}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs.Add("title", "The title field is required.")
	} else if len([]rune(title)) > 255 {
		errs.Add("title", "The title may not be greater than 255 characters.")
	}
	if strings.TrimSpace(in.Bio) == "" {
		errs.Add("bio", "The bio field is required.")
	}
	if in.HourlyRate == nil {
		errs.Add("hourly_rate", "The hourly rate field is required.")
	} else if *in.HourlyRate < 0 {
		errs.Add("hourly_rate", "The hourly rate must be at least 0.")
	}
	if in.Skills == nil {
		errs.Add("skills", "The skills field is required.")
	}
	for i, name := range in.Skills {
		if n := len([]rune(strings.TrimSpace(name))); n == 0 || n > 50 {
			errs.Add(fmt.Sprintf("skills.%d", i), "Each skill must be between 1 and 50 characters.")
		}
	}
	for i, item := range in.PortfolioItems {
		if strings.TrimSpace(item.Title) == "" {
			errs.Add(fmt.Sprintf("portfolio_items.%d.title", i), "The title field is required.")
		}
		if strings.TrimSpace(item.Description) == "" {
			errs.Add(fmt.Sprintf("portfolio_items.%d.description", i), "The description field is required.")
		}
	}
	checkURL(errs, "github_url", in.GithubURL)
	checkURL(errs, "linkedin_url", in.LinkedinURL)
	if len(in.Phone) > 30 {
		errs.Add("phone", "The phone may not be greater than 30 characters.")
	}
	if errs.Any() {
		return apperr.Invalid(errs)
	}
	return nil
}

func checkURL(errs apperr.FieldErrors, field, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.Add(field, "The "+strings.ReplaceAll(field, "_", " ")+" format is invalid.")
	}
}

func apply(p *models.DeveloperProfile, in Input) {
	p.Title = strings.TrimSpace(in.Title)
	p.Bio = strings.TrimSpace(in.Bio)
	p.HourlyRate = *in.HourlyRate
	p.GithubURL = strings.TrimSpace(in.GithubURL)
	p.LinkedinURL = strings.TrimSpace(in.LinkedinURL)
	p.Phone = strings.TrimSpace(in.Phone)
}

func replaceChildren(ctx context.Context, tx *repository.Store, p *models.DeveloperProfile, in Input) error {
	skills, err := tx.Skills.FirstOrCreateByNames(ctx, in.Skills)
	if err != nil {
		return err
	}
	if err := tx.Profiles.ReplaceSkills(ctx, p, skills); err != nil {
		return err
	}

	items := make([]models.PortfolioItem, 0, len(in.PortfolioItems))
	for _, it := range in.PortfolioItems {
		items = append(items, models.PortfolioItem{
			Title:       strings.TrimSpace(it.Title),
			Description: strings.TrimSpace(it.Description),
			ImagePath:   strings.TrimSpace(it.ImagePath),
		})
	}
	return tx.Profiles.ReplacePortfolio(ctx, p, items)
}

func skillNames(skills []models.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
