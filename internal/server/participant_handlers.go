package server

import (
	"togather/internal/models"

	"github.com/gofiber/fiber/v2"
)

type decideRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// ApplyToPost handles POST /api/posts/:postId/participants
func (s *Server) ApplyToPost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	res, err := s.participantService.Apply(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListParticipants handles GET /api/posts/:postId/participants
func (s *Server) ListParticipants(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	res, err := s.participantService.ListByPost(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// DecideParticipant handles PATCH /api/participants/:participantId
func (s *Server) DecideParticipant(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	participantID, err := parseID(c, "participantId")
	if err != nil {
		return nil
	}
	var req decideRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.participantService.Decide(c.UserContext(), userID, participantID, models.ParticipantStatus(req.Status))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}
