package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/posts/:postId/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.CreateReply(c.Context(), service.CreateReplyInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// UpdateReply handles PUT /api/posts/:postId/replies/:replyId
func (s *Server) UpdateReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "replyId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.UpdateReply(c.Context(), service.UpdateReplyInput{
		UserID:  userID,
		PostID:  postID,
		ReplyID: replyID,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(reply)
}

// DeleteReply handles DELETE /api/posts/:postId/replies/:replyId
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "replyId")
	if err != nil {
		return nil
	}

	if _, err := s.replyService.DeleteReply(c.Context(), service.DeleteReplyInput{
		UserID:  userID,
		PostID:  postID,
		ReplyID: replyID,
	}); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Reply deleted successfully",
	})
}
