package handlers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/profiles"
)

const maxPortfolioImage = 2 << 20

var portfolioExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type ProfileHandler struct {
	Profiles *profiles.Service
	// UploadDir is the root served under /uploads.
	UploadDir     string
	PublicBaseURL string
}

func NewProfileHandler(svc *profiles.Service, uploadDir, publicBaseURL string) *ProfileHandler {
	return &ProfileHandler{Profiles: svc, UploadDir: uploadDir, PublicBaseURL: publicBaseURL}
}

func (h *ProfileHandler) Mine(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	p, err := h.Profiles.Mine(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	var req profiles.Input
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Profiles.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, p)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Profile not found")
	if err != nil {
		return err
	}
	var req profiles.Input
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Profiles.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) Privacy(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Profile not found")
	if err != nil {
		return err
	}
	var req profiles.PrivacyInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.Profiles.UpdatePrivacy(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) Show(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Profile not found")
	if err != nil {
		return err
	}
	p, err := h.Profiles.Show(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) Search(c *fiber.Ctx) error {
	list, err := h.Profiles.Search(c.UserContext(), c.Query("skill"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, list)
}

// UploadPortfolioImage stores one image and returns the URL to put in a
// portfolio item's image_path.
func (h *ProfileHandler) UploadPortfolioImage(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apperr.InvalidField("image", "The image field is required.")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !portfolioExts[ext] {
		return apperr.InvalidField("image", "The image must be a file of type: jpg, jpeg, png, webp.")
	}
	if file.Size <= 0 || file.Size > maxPortfolioImage {
		return apperr.InvalidField("image", "The image may not be greater than 2048 kilobytes.")
	}

	dir := filepath.Join(h.UploadDir, "portfolio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	filename := fmt.Sprintf("p_%s_%d%s", actor.ID, time.Now().UnixNano(), ext)
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		log.Printf("[profiles] save upload for %s: %v", actor.ID, err)
		return err
	}

	publicURL := "/uploads/portfolio/" + filename
	if h.PublicBaseURL != "" {
		publicURL = strings.TrimRight(h.PublicBaseURL, "/") + publicURL
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"url":     publicURL,
	})
}
