package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skywatchhq/skywatch/internal/auth"
	"github.com/skywatchhq/skywatch/internal/journal"
	"github.com/skywatchhq/skywatch/internal/settings"
)

// registerRequest is the sign-up body.
type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// loginRequest is the sign-in body.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// alertSettingsRequest is the alert-preference update body.
type alertSettingsRequest struct {
	Enabled bool `json:"enabled"`
}

// registerAccountRoutes wires auth, journal, and preference handlers. The
// journal and preference groups require a bearer token.
func registerAccountRoutes(v1 fiber.Router, d Deps) {
	v1.Post("/auth/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		user, err := d.Auth.Register(req.Email, req.Password, req.DisplayName)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	v1.Post("/auth/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		token, user, err := d.Auth.Login(req.Email, req.Password)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{
			"token": token,
			"user":  user,
		})
	})

	authed := v1.Group("", auth.Middleware(d.Auth))

	authed.Get("/journal", func(c *fiber.Ctx) error {
		uid, _ := auth.UserID(c)
		entries, err := d.Journal.List(uid)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	authed.Post("/journal", func(c *fiber.Ctx) error {
		uid, _ := auth.UserID(c)
		var entry journal.Entry
		if err := c.BodyParser(&entry); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := d.Journal.Create(uid, &entry); err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	authed.Get("/journal/:id", func(c *fiber.Ctx) error {
		uid, _ := auth.UserID(c)
		entry, err := d.Journal.Get(uid, c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(entry)
	})

	authed.Put("/journal/:id", func(c *fiber.Ctx) error {
		uid, _ := auth.UserID(c)
		var updated journal.Entry
		if err := c.BodyParser(&updated); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		entry, err := d.Journal.Update(uid, c.Params("id"), &updated)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(entry)
	})

	authed.Delete("/journal/:id", func(c *fiber.Ctx) error {
		uid, _ := auth.UserID(c)
		if err := d.Journal.Delete(uid, c.Params("id")); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	authed.Post("/presence/heartbeat", func(c *fiber.Ctx) error {
		d.Presence.Beat()
		return c.SendStatus(fiber.StatusNoContent)
	})

	authed.Get("/settings/alerts", func(c *fiber.Ctx) error {
		enabled, err := d.Prefs.GetBool(settings.KeyAlertsEnabled, false)
		if err != nil {
			return httpError(err)
		}
		lastAlerted, err := d.Prefs.GetFloat(settings.KeyLastAlerted, settings.LastAlertedSentinel)
		if err != nil {
			return httpError(err)
		}

		body := fiber.Map{"enabled": enabled}
		if lastAlerted != settings.LastAlertedSentinel {
			body["last_alerted_kp"] = lastAlerted
		}
		return c.JSON(body)
	})

	authed.Put("/settings/alerts", func(c *fiber.Ctx) error {
		var req alertSettingsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := d.Prefs.SetBool(settings.KeyAlertsEnabled, req.Enabled); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"enabled": req.Enabled})
	})
}
