// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"quorum/internal/cache"
	"quorum/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines interface for reply operations
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
	Delete(ctx context.Context, reply *models.Reply) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return err
	}
	// The cached post embeds its replies.
	cache.Invalidate(ctx, cache.PostKey(reply.PostID))
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *replyRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

func (r *replyRepository) Update(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Save(reply).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(reply.PostID))
	return nil
}

func (r *replyRepository) Delete(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reply{}, reply.ID).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(reply.PostID))
	return nil
}
