package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn     func(context.Context, *models.Reply) error
	getByIDFn    func(context.Context, uint) (*models.Reply, error)
	listByPostFn func(context.Context, uint) ([]*models.Reply, error)
	updateFn     func(context.Context, *models.Reply) error
	deleteFn     func(context.Context, *models.Reply) error
}

func (s *replyRepoStub) Create(ctx context.Context, reply *models.Reply) error {
	return s.createFn(ctx, reply)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *replyRepoStub) Update(ctx context.Context, reply *models.Reply) error {
	return s.updateFn(ctx, reply)
}
func (s *replyRepoStub) Delete(ctx context.Context, reply *models.Reply) error {
	return s.deleteFn(ctx, reply)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn:     func(_ context.Context, _ *models.Reply) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Reply, error) { return &models.Reply{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Reply, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Reply) error { return nil },
		deleteFn:     func(_ context.Context, _ *models.Reply) error { return nil },
	}
}

func TestReplyService_CreateReply_Validation(t *testing.T) {
	t.Parallel()

	svc := NewReplyService(noopReplyRepo(), noopPostRepo())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateReply(ctx, CreateReplyInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateReply(ctx, CreateReplyInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", maxReplyLen+1),
		})
		assertValidationError(t, err)
	})

	t.Run("post not found", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc2 := NewReplyService(noopReplyRepo(), postRepo)
		_, err := svc2.CreateReply(ctx, CreateReplyInput{UserID: 1, PostID: 99, Content: "hi"})

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestReplyService_CreateReply_Success(t *testing.T) {
	t.Parallel()

	replyRepo := noopReplyRepo()
	replyRepo.createFn = func(_ context.Context, r *models.Reply) error {
		r.ID = 42
		return nil
	}
	replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
		return &models.Reply{ID: id, Content: "hello", UserID: 1, PostID: 1}, nil
	}

	svc := NewReplyService(replyRepo, noopPostRepo())
	reply, err := svc.CreateReply(context.Background(), CreateReplyInput{
		UserID:  1,
		PostID:  1,
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), reply.ID)
	assert.Equal(t, "hello", reply.Content)
}

func TestReplyService_UpdateReply_Ownership(t *testing.T) {
	t.Parallel()

	replyRepo := noopReplyRepo()
	replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
		return &models.Reply{ID: id, Content: "original", UserID: 1, PostID: 1}, nil
	}

	svc := NewReplyService(replyRepo, noopPostRepo())
	_, err := svc.UpdateReply(context.Background(), UpdateReplyInput{
		UserID:  2,
		PostID:  1,
		ReplyID: 5,
		Content: "edited",
	})
	assertUnauthorizedError(t, err)
}

func TestReplyService_UpdateReply_ValidatesBeforeLookup(t *testing.T) {
	t.Parallel()

	replyRepo := noopReplyRepo()
	replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
		return nil, gorm.ErrRecordNotFound
	}

	// Empty content fails validation even when the reply does not exist.
	svc := NewReplyService(replyRepo, noopPostRepo())
	_, err := svc.UpdateReply(context.Background(), UpdateReplyInput{
		UserID:  1,
		PostID:  1,
		ReplyID: 99,
		Content: "   ",
	})
	assertValidationError(t, err)
}

func TestReplyService_PostMismatchIsNotFound(t *testing.T) {
	t.Parallel()

	replyRepo := noopReplyRepo()
	replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
		return &models.Reply{ID: id, UserID: 1, PostID: 1}, nil
	}

	svc := NewReplyService(replyRepo, noopPostRepo())
	_, err := svc.DeleteReply(context.Background(), DeleteReplyInput{UserID: 1, PostID: 2, ReplyID: 5})

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestReplyService_DeleteReply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("not owner", func(t *testing.T) {
		t.Parallel()
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, UserID: 1, PostID: 1}, nil
		}
		svc := NewReplyService(replyRepo, noopPostRepo())
		_, err := svc.DeleteReply(ctx, DeleteReplyInput{UserID: 2, PostID: 1, ReplyID: 5})
		assertUnauthorizedError(t, err)
	})

	t.Run("owner deletes", func(t *testing.T) {
		t.Parallel()
		replyRepo := noopReplyRepo()
		replyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, UserID: 1, PostID: 1}, nil
		}
		deleted := false
		replyRepo.deleteFn = func(_ context.Context, _ *models.Reply) error {
			deleted = true
			return nil
		}
		svc := NewReplyService(replyRepo, noopPostRepo())
		reply, err := svc.DeleteReply(ctx, DeleteReplyInput{UserID: 1, PostID: 1, ReplyID: 5})
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, uint(5), reply.ID)
	})
}
