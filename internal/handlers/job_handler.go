package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/jobs"
)

type JobHandler struct {
	Jobs *jobs.Service
}

func NewJobHandler(svc *jobs.Service) *JobHandler {
	return &JobHandler{Jobs: svc}
}

type userRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// JobResponse is the public shape of a job.
type JobResponse struct {
	ID               uuid.UUID        `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Budget           float64          `json:"budget"`
	Deadline         time.Time        `json:"deadline"`
	Status           models.JobStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	Skills           []models.Skill   `json:"skills"`
	Client           *userRef         `json:"client,omitempty"`
	ApplicationCount int64            `json:"application_count"`
}

func jobResponse(j *models.Job, applications int64) JobResponse {
	out := JobResponse{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		Budget:           j.Budget,
		Deadline:         j.Deadline,
		Status:           j.Status,
		CreatedAt:        j.CreatedAt,
		Skills:           j.Skills,
		ApplicationCount: applications,
	}
	if out.Skills == nil {
		out.Skills = []models.Skill{}
	}
	if j.Client != nil {
		out.Client = &userRef{ID: j.Client.ID, Name: j.Client.Name}
	}
	return out
}

func listingResponses(list []jobs.Listing) []JobResponse {
	out := make([]JobResponse, 0, len(list))
	for i := range list {
		out = append(out, jobResponse(&list[i].Job, list[i].ApplicationCount))
	}
	return out
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	list, meta, err := h.Jobs.List(c.UserContext(), actor, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return okList(c, listingResponses(list), meta)
}

func (h *JobHandler) Search(c *fiber.Ctx) error {
	list, meta, err := h.Jobs.Search(c.UserContext(), jobs.SearchQuery{
		Skill:     c.Query("skill"),
		Title:     c.Query("title"),
		MinBudget: c.Query("min_budget"),
		MaxBudget: c.Query("max_budget"),
		FromDate:  c.Query("from_date"),
		ToDate:    c.Query("to_date"),
		Sort:      c.Query("sort"),
		Direction: c.Query("direction"),
		PerPage:   c.QueryInt("per_page", 0),
		Page:      c.QueryInt("page", 1),
	})
	if err != nil {
		return err
	}
	return okList(c, listingResponses(list), meta)
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	var req jobs.CreateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	job, err := h.Jobs.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, jobResponse(job, 0))
}

func (h *JobHandler) Show(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	l, err := h.Jobs.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, jobResponse(&l.Job, l.ApplicationCount))
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	var req jobs.UpdateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.Jobs.Update(c.UserContext(), actor, id, req); err != nil {
		return err
	}
	l, err := h.Jobs.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, jobResponse(&l.Job, l.ApplicationCount))
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	if err := h.Jobs.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type applicationResponse struct {
	models.JobApplication
	Developer *userRef `json:"developer,omitempty"`
}

func (h *JobHandler) Applications(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	apps, err := h.Jobs.Applications(c.UserContext(), actor, id)
	if err != nil {
		return err
	}

	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		r := applicationResponse{JobApplication: a}
		if a.Developer != nil {
			r.Developer = &userRef{ID: a.Developer.ID, Name: a.Developer.Name}
		}
		out = append(out, r)
	}
	return ok(c, fiber.StatusOK, out)
}
