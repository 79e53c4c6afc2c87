package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

type Service struct {
	Store      *repository.Store
	Secret     string
	ExpiresMin int
	Revoker    Revoker
}

func NewService(store *repository.Store, secret string, expiresMin int, revoker Revoker) *Service {
	return &Service{Store: store, Secret: secret, ExpiresMin: expiresMin, Revoker: revoker}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // client / developer, admin is never self-assigned
}

// Session is a signed-in user with the token that authenticates them.
type Session struct {
	User  *models.User
	Token string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	role := models.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		role = models.RoleClient
	}

	errs := apperr.FieldErrors{}
	if name == "" {
		errs.Add("name", "The name field is required.")
	} else if len(name) > 255 {
		errs.Add("name", "The name may not be greater than 255 characters.")
	}
	if email == "" {
		errs.Add("email", "The email field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "The email must be a valid email address.")
	}
	if in.Password == "" {
		errs.Add("password", "The password field is required.")
	} else if len(in.Password) < 8 {
		errs.Add("password", "The password must be at least 8 characters.")
	}
	if role != models.RoleClient && role != models.RoleDeveloper {
		errs.Add("role", "The selected role is invalid.")
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	if _, err := s.Store.Users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.InvalidField("email", "The email has already been taken.")
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := s.Store.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidField("email", "The email has already been taken.")
		}
		return nil, err
	}
	return s.issue(&u)
}

var errBadCredentials = apperr.InvalidField("email", "The provided credentials are incorrect.")

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	errs := apperr.FieldErrors{}
	if email == "" {
		errs.Add("email", "The email field is required.")
	}
	if password == "" {
		errs.Add("password", "The password field is required.")
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	u, err := s.Store.Users.FindByEmail(ctx, email)
	if repository.IsNotFound(err) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, errBadCredentials
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("Account is inactive")
	}
	return s.issue(u)
}

// Logout revokes the token until its own expiry.
func (s *Service) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ID == "" || s.Revoker == nil {
		return nil
	}
	until := time.Now().Add(time.Duration(s.ExpiresMin) * time.Minute)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.Revoker.Revoke(ctx, claims.ID, until)
}

// SignInExternal finds or creates the user behind a verified third-party identity.
// New accounts get the client role and an unusable random password.
func (s *Service) SignInExternal(ctx context.Context, email, name string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, apperr.InvalidField("email", "The email field is required.")
	}

	u, err := s.Store.Users.FindByEmail(ctx, email)
	switch {
	case repository.IsNotFound(err):
		hash, herr := utils.HashPassword(randomSecret(24))
		if herr != nil {
			return nil, herr
		}
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		u = &models.User{Name: name, Email: email, Password: hash, Role: models.RoleClient, IsActive: true}
		if err := s.Store.Users.Create(ctx, u); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if name != "" && u.Name != name {
			u.Name = name
			if err := s.Store.Users.Save(ctx, u); err != nil {
				return nil, err
			}
		}
	}

	if !u.IsActive {
		return nil, apperr.Forbidden("Account is inactive")
	}
	return s.issue(u)
}

func (s *Service) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	u, err := s.Store.Users.FindByID(ctx, actor.ID)
	if repository.IsNotFound(err) {
		return nil, apperr.Unauthorized("User not found")
	}
	return u, err
}

func (s *Service) issue(u *models.User) (*Session, error) {
	if s.Secret == "" {
		return nil, errors.New("auth: empty jwt secret")
	}
	token, err := utils.SignJWT(s.Secret, u.ID.String(), string(u.Role), s.ExpiresMin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u, Token: token}, nil
}

func randomSecret(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
