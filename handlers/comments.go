package handlers

import (
	"fmt"
	"strconv"

	"campwild/logger"
	"campwild/middleware"
	"campwild/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateComment handles POST /campgrounds/:id/comments (login-gated).
func (s *Server) CreateComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		s.sessions.Flash(c, middleware.FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	campground, err := s.campgrounds.GetByID(c.Context(), uint(id))
	if err != nil {
		s.sessions.Flash(c, middleware.FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	content := c.FormValue("content")
	if content == "" {
		s.sessions.Flash(c, middleware.FlashError, "Comment cannot be empty")
		return c.Redirect(fmt.Sprintf("/campgrounds/%d", campground.ID))
	}

	comment := &models.Comment{
		Content:        content,
		UserID:         user.ID,
		AuthorUsername: user.Username,
		CampgroundID:   campground.ID,
	}

	if err := s.comments.Create(c.Context(), comment); err != nil {
		logger.Error("failed to create comment", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Could not add your comment")
		return c.Redirect(fmt.Sprintf("/campgrounds/%d", campground.ID))
	}

	s.sessions.Flash(c, middleware.FlashSuccess, "Comment added")
	return c.Redirect(fmt.Sprintf("/campgrounds/%d", campground.ID))
}

// DeleteComment handles DELETE /campgrounds/:id/comments/:commentID
// (comment-ownership-gated).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := strconv.ParseUint(c.Params("commentID"), 10, 32)
	if err != nil {
		return c.Redirect("/campgrounds/" + c.Params("id"))
	}

	if err := s.comments.Delete(c.Context(), uint(commentID)); err != nil {
		logger.Error("failed to delete comment", zap.Uint64("id", commentID), zap.Error(err))
	} else {
		s.sessions.Flash(c, middleware.FlashSuccess, "Comment deleted")
	}

	return c.Redirect("/campgrounds/" + c.Params("id"))
}
