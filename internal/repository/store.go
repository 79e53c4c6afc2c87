package repository

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"
)

// Store groups the repositories so a use case can run several of them in one
// transaction.
type Store struct {
	db *gorm.DB

	Users         *UserRepository
	Skills        *SkillRepository
	Jobs          *JobRepository
	Applications  *ApplicationRepository
	Profiles      *ProfileRepository
	Messages      *MessageRepository
	Reviews       *ReviewRepository
	Payments      *PaymentRepository
	Notifications *NotificationRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Skills:        NewSkillRepository(db),
		Jobs:          NewJobRepository(db),
		Applications:  NewApplicationRepository(db),
		Profiles:      NewProfileRepository(db),
		Messages:      NewMessageRepository(db),
		Reviews:       NewReviewRepository(db),
		Payments:      NewPaymentRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn against a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Page is a normalized page request.
type Page struct {
	Page    int
	PerPage int
}

func NewPage(page, perPage, def, max int) Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if max > 0 && perPage > max {
		perPage = max
	}
	return Page{Page: page, PerPage: perPage}
}

func (p Page) Offset() int { return (p.Page - 1) * p.PerPage }

type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

func newMeta(p Page, total int64) Meta {
	last := int(math.Ceil(float64(total) / float64(p.PerPage)))
	if last < 1 {
		last = 1
	}
	return Meta{CurrentPage: p.Page, LastPage: last, PerPage: p.PerPage, Total: total}
}

// paginate counts q, then loads one ordered page of it into out with the given
// relations preloaded.
func paginate[T any](q *gorm.DB, order string, p Page, out *[]T, preloads ...string) (Meta, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Meta{}, err
	}

	find := q.Session(&gorm.Session{})
	for _, rel := range preloads {
		find = find.Preload(rel)
	}
	if err := find.
		Order(order).
		Limit(p.PerPage).
		Offset(p.Offset()).
		Find(out).Error; err != nil {
		return Meta{}, err
	}
	if *out == nil {
		*out = []T{}
	}
	return newMeta(p, total), nil
}
