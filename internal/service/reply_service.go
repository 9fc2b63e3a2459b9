package service

import (
	"context"
	"errors"
	"strings"

	"quorum/internal/models"
	"quorum/internal/repository"

	"gorm.io/gorm"
)

const maxReplyLen = 10000

type ReplyService struct {
	replyRepo repository.ReplyRepository
	postRepo  repository.PostRepository
}

type CreateReplyInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type UpdateReplyInput struct {
	UserID  uint
	PostID  uint
	ReplyID uint
	Content string
}

type DeleteReplyInput struct {
	UserID  uint
	PostID  uint
	ReplyID uint
}

func NewReplyService(replyRepo repository.ReplyRepository, postRepo repository.PostRepository) *ReplyService {
	return &ReplyService{
		replyRepo: replyRepo,
		postRepo:  postRepo,
	}
}

func (s *ReplyService) getReply(ctx context.Context, id uint) (*models.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, models.NewInternalError(err)
	}
	return reply, nil
}

func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxReplyLen {
		return nil, models.NewValidationError("Reply too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, models.NewInternalError(err)
	}

	reply := &models.Reply{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.getReply(ctx, reply.ID)
}

func (s *ReplyService) ListReplies(ctx context.Context, postID uint) ([]*models.Reply, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}

	replies, err := s.replyRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

func (s *ReplyService) UpdateReply(ctx context.Context, in UpdateReplyInput) (*models.Reply, error) {
	// Input validation fails before any lookup.
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxReplyLen {
		return nil, models.NewValidationError("Reply too long (max 10000 characters)")
	}

	reply, err := s.getReply(ctx, in.ReplyID)
	if err != nil {
		return nil, err
	}
	if reply.PostID != in.PostID {
		return nil, models.NewNotFoundError("Reply", in.ReplyID)
	}
	if reply.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own replies")
	}

	reply.Content = in.Content
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.getReply(ctx, reply.ID)
}

func (s *ReplyService) DeleteReply(ctx context.Context, in DeleteReplyInput) (*models.Reply, error) {
	reply, err := s.getReply(ctx, in.ReplyID)
	if err != nil {
		return nil, err
	}
	// The reply must belong to the post named in the route.
	if reply.PostID != in.PostID {
		return nil, models.NewNotFoundError("Reply", in.ReplyID)
	}
	if reply.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only delete your own replies")
	}

	if err := s.replyRepo.Delete(ctx, reply); err != nil {
		return nil, models.NewInternalError(err)
	}
	return reply, nil
}
