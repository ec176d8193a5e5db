package server

import (
	"togather/internal/models"
	"togather/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,password"`
	Nickname    string `json:"nickname" validate:"required,nickname"`
	Description string `json:"description" validate:"max=500"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Nickname    *string `json:"nickname" validate:"omitempty,nickname"`
	Password    *string `json:"password" validate:"omitempty,password"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// Register handles POST /api/users/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.userService.CreateUser(c.UserContext(), service.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		Nickname:    req.Nickname,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login handles POST /api/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// GetMe handles GET /api/users/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}

	res, err := s.userService.GetSessionUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// UpdateMe handles PATCH /api/users/me
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.userService.UpdateUser(c.UserContext(), userID, service.UpdateUserInput{
		Nickname:    req.Nickname,
		Password:    req.Password,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// DeleteMe handles DELETE /api/users/me
func (s *Server) DeleteMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}

	res, err := s.userService.DeleteUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}
