package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

// Deps carries everything Register needs to mount the API.
type Deps struct {
	JWTSecret   string
	Revocations middleware.Revocations
	// AuthRateLimit caps login/register attempts per client per minute; 0 uses the limiter default.
	AuthRateLimit int

	Auth          *AuthHandler
	Google        *GoogleOAuthHandler
	Skills        *SkillHandler
	Jobs          *JobHandler
	Applications  *ApplicationHandler
	Profiles      *ProfileHandler
	Messages      *MessageHandler
	Reviews       *ReviewHandler
	Payments      *PaymentHandler
	Notifications *NotificationHandler
	Admin         *AdminHandler
}

// Register mounts every route. Public routes go first: the protected group
// below has an empty prefix and authenticates whatever reaches it.
func Register(app *fiber.App, d Deps) {
	authLimit := middleware.RateLimiter(d.AuthRateLimit, time.Minute)

	app.Post("/register", authLimit, d.Auth.Register)
	app.Post("/login", authLimit, d.Auth.Login)
	if d.Google != nil {
		app.Get("/auth/google/start", d.Google.GoogleStart)
		app.Get("/auth/google/callback", d.Google.GoogleCallback)
	}
	app.Get("/api/skills", d.Skills.List)

	app.Get("/ws",
		d.Messages.Upgrade,
		middleware.JWTFromCookie(d.JWTSecret, d.Revocations),
		middleware.AttachJWTLocals(),
		websocket.New(d.Messages.Stream),
	)

	r := app.Group("",
		middleware.JWTFromCookie(d.JWTSecret, d.Revocations),
		middleware.AttachJWTLocals(),
	)

	clientOnly := middleware.RequireRoles(models.RoleClient)
	developerOnly := middleware.RequireRoles(models.RoleDeveloper)

	r.Post("/logout", d.Auth.Logout)
	r.Get("/me", d.Auth.Me)

	// jobs
	r.Get("/jobs", d.Jobs.List)
	r.Get("/jobs/search", d.Jobs.Search)
	r.Post("/jobs", clientOnly, d.Jobs.Create)
	r.Get("/jobs/:id", d.Jobs.Show)
	r.Put("/jobs/:id", clientOnly, d.Jobs.Update)
	r.Delete("/jobs/:id", clientOnly, d.Jobs.Delete)
	r.Get("/jobs/:id/applications", d.Jobs.Applications)
	r.Post("/jobs/:id/apply", d.Applications.Apply)
	r.Get("/jobs/:id/payments", d.Payments.List)
	r.Post("/jobs/:id/payments", d.Payments.Create)

	r.Get("/applications", d.Applications.ListMine)
	r.Patch("/applications/:id", d.Applications.UpdateStatus)

	// developer profiles
	r.Get("/developer/profile", developerOnly, d.Profiles.Mine)
	r.Post("/developer/profile", developerOnly, d.Profiles.Create)
	r.Post("/developer/profile/portfolio/image", developerOnly, d.Profiles.UploadPortfolioImage)
	r.Get("/developer/search", d.Profiles.Search)
	r.Get("/developer/profile/:id", d.Profiles.Show)
	r.Put("/developer/profile/:id", d.Profiles.Update)
	r.Put("/developer/profile/:id/privacy", d.Profiles.Privacy)

	// messages
	r.Get("/messages", d.Messages.List)
	r.Post("/messages", d.Messages.Send)
	r.Get("/messages/unread/count", d.Messages.UnreadCount)
	r.Put("/messages/:id/read", d.Messages.MarkRead)

	// users & reviews
	r.Get("/users/:id", d.Reviews.User)
	r.Get("/users/:id/reviews", d.Reviews.List)
	r.Post("/users/:id/reviews", d.Reviews.Create)

	r.Get("/payments/:id", d.Payments.Show)
	r.Patch("/payments/:id", d.Payments.Update)

	// notifications
	r.Get("/notifications", d.Notifications.List)
	r.Get("/notifications/unread/count", d.Notifications.UnreadCount)
	r.Post("/notifications/mark-all-read", d.Notifications.MarkAllRead)
	r.Patch("/notifications/:id", d.Notifications.MarkRead)
	r.Delete("/notifications/:id", d.Notifications.Delete)

	r.Get("/admin/dashboard", middleware.RequireRoles(models.RoleAdmin), d.Admin.Dashboard)
}
