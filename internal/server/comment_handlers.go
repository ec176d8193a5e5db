package server

import (
	"togather/internal/models"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content" validate:"notblank,max=250"`
}

// ListComments handles GET /api/posts/:postId/comments?cursor=
func (s *Server) ListComments(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	cursor, err := parseCursor(c)
	if err != nil {
		return nil
	}

	res, err := s.commentService.ListComments(c.UserContext(), userID, postID, cursor)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// CreateComment handles POST /api/posts/:postId/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.commentService.CreateComment(c.UserContext(), userID, postID, req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// UpdateComment handles PATCH /api/posts/:postId/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.commentService.UpdateComment(c.UserContext(), userID, postID, commentID, req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// DeleteComment handles DELETE /api/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	res, err := s.commentService.DeleteComment(c.UserContext(), userID, commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}
