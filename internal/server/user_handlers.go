package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user.OwnProfile())
}

// UpdateMyProfile handles PUT /api/users/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	// Pointer fields distinguish "omitted" from "explicitly empty";
	// an empty bio clears it.
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Bio      *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user.OwnProfile())
}

// GetMyPosts handles GET /api/users/my-posts
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c)

	posts, err := s.postService.ListPostsByUser(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPublicProfile handles GET /api/users/username/:username
func (s *Server) GetPublicProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := s.userService.GetPublicProfile(c.Context(), username)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(profile)
}
