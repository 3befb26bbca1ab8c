// Package routes wires the HTTP surface to the handlers.
package routes

import (
	"campwild/handlers"
	"campwild/middleware"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, s *handlers.Server, m *middleware.Manager) {
	app.Get("/", s.Landing)

	// Auth
	app.Get("/register", s.ShowRegister)
	app.Post("/register", s.Register)
	app.Get("/login", s.ShowLogin)
	app.Post("/login", s.Login)
	app.Get("/logout", s.Logout)

	// Password reset
	app.Get("/forgot", s.ShowForgot)
	app.Post("/forgot", s.Forgot)
	app.Get("/reset/:token", s.ShowReset)
	app.Post("/reset/:token", s.Reset)

	// Campgrounds. "/new" must be registered before "/:id".
	campgrounds := app.Group("/campgrounds")
	campgrounds.Get("/", s.ListCampgrounds)
	campgrounds.Get("/new", m.RequireLogin, s.NewCampgroundForm)
	campgrounds.Post("/", m.RequireLogin, s.CreateCampground)
	campgrounds.Get("/:id", s.ShowCampground)
	campgrounds.Get("/:id/edit", m.CheckCampgroundOwnership, s.EditCampgroundForm)
	campgrounds.Put("/:id", m.CheckCampgroundOwnership, s.UpdateCampground)
	campgrounds.Delete("/:id", m.CheckCampgroundOwnership, s.DeleteCampground)

	// Comments
	campgrounds.Post("/:id/comments", m.RequireLogin, s.CreateComment)
	campgrounds.Delete("/:id/comments/:commentID", m.CheckCommentOwnership, s.DeleteComment)
}
