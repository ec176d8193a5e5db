package server

import (
	"togather/internal/models"

	"github.com/gofiber/fiber/v2"
)

type openChatRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

type messageRequest struct {
	Content string `json:"content" validate:"notblank,max=2000"`
}

// OpenChat handles POST /api/chats
func (s *Server) OpenChat(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	var req openChatRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.chatService.OpenChat(c.UserContext(), userID, req.UserID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// ListChats handles GET /api/chats
func (s *Server) ListChats(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}

	res, err := s.chatService.ListChats(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// CreateMessage handles POST /api/chats/:chatId/messages
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	chatID, err := parseID(c, "chatId")
	if err != nil {
		return nil
	}
	var req messageRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.messageService.CreateMessage(c.UserContext(), userID, chatID, req.Content)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListMessages handles GET /api/chats/:chatId/messages
func (s *Server) ListMessages(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	chatID, err := parseID(c, "chatId")
	if err != nil {
		return nil
	}

	res, err := s.messageService.ListMessages(c.UserContext(), userID, chatID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}
