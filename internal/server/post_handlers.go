package server

import (
	"togather/internal/models"
	"togather/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Type    string `json:"type" validate:"required,max=30"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type updatePostRequest struct {
	Type    *string `json:"type" validate:"omitempty,max=30"`
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content" validate:"omitempty"`
}

// ListPosts handles GET /api/posts?page=&perPage=&type=
func (s *Server) ListPosts(c *fiber.Ctx) error {
	res, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("perPage", 10),
		Type:    c.Query("type"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	var req createPostRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.postService.CreatePost(c.UserContext(), userID, service.CreatePostInput{
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetPost handles GET /api/posts/:postId
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	res, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// UpdatePost handles PATCH /api/posts/:postId
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req updatePostRequest
	if err := bind(c, &req); err != nil {
		return nil
	}

	res, err := s.postService.UpdatePost(c.UserContext(), userID, postID, service.UpdatePostInput{
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// DeletePost handles DELETE /api/posts/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	res, err := s.postService.DeletePost(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}
