package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/auth"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	Auth            *auth.Service
	Session         *AuthHandler
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Session.Secure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	if h.GoogleClientID == "" {
		return fiber.NewError(fiber.StatusNotFound, "Google sign-in is not configured")
	}

	next := c.Query("next", "/")
	st := randomState(32)

	h.tempCookie(c, "oauth_state", st, 10*60)
	h.tempCookie(c, "oauth_next", next, 10*60)

	return c.Redirect(h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code/state")
	}
	if st := c.Cookies("oauth_state"); st == "" || st != state {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid state")
	}

	next := c.Cookies("oauth_next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}

	tok, err := h.oauthCfg().Exchange(c.UserContext(), code)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to exchange code")
	}

	resp, err := h.oauthCfg().Client(c.UserContext(), tok).Get(googleUserInfoURL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch userinfo")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode != http.StatusOK {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch userinfo")
	}

	info := gjson.ParseBytes(body)
	email := info.Get("email").String()
	if email == "" || !info.Get("verified_email").Bool() {
		return fiber.NewError(fiber.StatusBadRequest, "Google account has no verified email")
	}

	sess, err := h.Auth.SignInExternal(c.UserContext(), email, info.Get("name").String())
	if apperr.IsKind(err, apperr.KindForbidden) {
		return c.Redirect(h.FrontendBaseURL+"/login?err="+url.QueryEscape("Account is inactive"), http.StatusTemporaryRedirect)
	}
	if err != nil {
		log.Printf("[auth] google sign-in for %s failed: %v", email, err)
		return err
	}

	h.Session.setCookie(c, sess.Token)
	h.tempCookie(c, "oauth_state", "", -1)
	h.tempCookie(c, "oauth_next", "", -1)

	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}
