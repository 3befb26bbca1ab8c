// Package middleware provides session handling, authentication and
// authorization middleware for the application.
package middleware

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"campwild/logger"
	"campwild/models"
	"campwild/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

const (
	sessionUserKey = "userID"

	localsUserKey = "currentUser"

	// FlashError and FlashSuccess are the flash message kinds pages render.
	FlashError   = "error"
	FlashSuccess = "success"
)

// Manager bundles the session store with the repositories the guards need.
type Manager struct {
	store       *session.Store
	users       repository.UserRepository
	campgrounds repository.CampgroundRepository
	comments    repository.CommentRepository
}

func NewManager(users repository.UserRepository, campgrounds repository.CampgroundRepository, comments repository.CommentRepository) *Manager {
	store := session.New(session.Config{
		KeyLookup:      "cookie:campwild_session",
		Expiration:     7 * 24 * time.Hour,
		CookieHTTPOnly: true,
	})
	return &Manager{
		store:       store,
		users:       users,
		campgrounds: campgrounds,
		comments:    comments,
	}
}

// MethodOverride lets HTML forms issue PUT and DELETE by posting a _method
// field. It must run before routing-sensitive middleware.
func MethodOverride(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		if m := strings.ToUpper(c.FormValue("_method")); m == fiber.MethodPut || m == fiber.MethodDelete {
			c.Method(m)
		}
	}
	return c.Next()
}

// LoadUser resolves the session user, if any, into c.Locals for handlers and
// templates. It never blocks a request.
func (m *Manager) LoadUser(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return c.Next()
	}

	id, ok := sess.Get(sessionUserKey).(uint)
	if !ok {
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), id)
	if err != nil {
		// Stale session referencing a removed user.
		return c.Next()
	}

	c.Locals(localsUserKey, user)
	return c.Next()
}

// CurrentUser returns the session user loaded by LoadUser, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

// RequireLogin redirects anonymous requests to the login page.
func (m *Manager) RequireLogin(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		m.Flash(c, FlashError, "You need to be logged in to do that")
		return c.Redirect("/login")
	}
	return c.Next()
}

// CheckCampgroundOwnership guards mutating campground routes. It fetches the
// campground named by :id and lets the request proceed only when the session
// user is the recorded author or an admin. The check is read-then-decide with
// no locking; a concurrent delete can race it.
func (m *Manager) CheckCampgroundOwnership(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		m.Flash(c, FlashError, "You need to be logged in to do that")
		return c.Redirect("/login")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		m.Flash(c, FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	campground, err := m.campgrounds.GetByID(c.Context(), uint(id))
	if err != nil {
		m.Flash(c, FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	if campground.AuthorID != user.ID && !user.IsAdmin {
		m.Flash(c, FlashError, "You don't have permission to do that")
		return c.Redirect("/campgrounds/" + c.Params("id"))
	}

	return c.Next()
}

// CheckCommentOwnership guards comment deletion the same way.
func (m *Manager) CheckCommentOwnership(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		m.Flash(c, FlashError, "You need to be logged in to do that")
		return c.Redirect("/login")
	}

	commentID, err := strconv.ParseUint(c.Params("commentID"), 10, 32)
	if err != nil {
		m.Flash(c, FlashError, "Comment not found")
		return c.Redirect("/campgrounds/" + c.Params("id"))
	}

	comment, err := m.comments.GetByID(c.Context(), uint(commentID))
	if err != nil {
		m.Flash(c, FlashError, "Comment not found")
		return c.Redirect("/campgrounds/" + c.Params("id"))
	}

	if comment.UserID != user.ID && !user.IsAdmin {
		m.Flash(c, FlashError, "You don't have permission to do that")
		return c.Redirect("/campgrounds/" + c.Params("id"))
	}

	return c.Next()
}

// SignIn records the user in the session.
func (m *Manager) SignIn(c *fiber.Ctx, userID uint) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// SignOut destroys the session.
func (m *Manager) SignOut(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

const flashCookiePrefix = "campwild_flash_"

// Flash stores a one-shot message of the given kind. Flashes live in their
// own cookie rather than the session so a redirecting handler never has to
// write the session twice in one request.
func (m *Manager) Flash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookiePrefix + kind,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HTTPOnly: true,
	})
}

// PopFlashes returns pending flash messages and clears them.
func (m *Manager) PopFlashes(c *fiber.Ctx) fiber.Map {
	out := fiber.Map{}
	for _, kind := range []string{FlashError, FlashSuccess} {
		name := flashCookiePrefix + kind
		v := c.Cookies(name)
		if v == "" {
			continue
		}
		msg, err := url.QueryUnescape(v)
		if err != nil {
			logger.Warn("dropping malformed flash cookie", zap.Error(err))
		} else {
			out[kind] = msg
		}
		c.Cookie(&fiber.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			Expires: time.Now().Add(-time.Hour),
		})
	}
	return out
}
