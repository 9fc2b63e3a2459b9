// Package service holds the application's business rules, between handlers and repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"quorum/internal/models"
	"quorum/internal/repository"

	"gorm.io/gorm"
)

const maxTitleLen = 300
const maxContentLen = 10000

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
}

// UpdatePostInput carries the fields supplied by the client. Nil pointers
// mean "leave unchanged".
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    *string
	Content  *string
	Category *string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func invalidCategoryError() *models.AppError {
	return models.NewValidationError(
		"Invalid category. Must be one of: " + strings.Join(models.AllowedCategories, ", "))
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, models.NewValidationError("Title, content, and category are required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	// Writes take the canonical spelling only; case-insensitive matching
	// is a read-side convenience for the category listing.
	if !models.IsValidCategory(in.Category) {
		return nil, invalidCategoryError()
	}

	post := &models.Post{
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		Category: in.Category,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.GetPost(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListPostsByCategory resolves the category name case-insensitively.
// A name outside the fixed set is NotFound, not a validation failure.
func (s *PostService) ListPostsByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Post, error) {
	normalized, ok := models.NormalizeCategory(category)
	if !ok {
		return nil, models.NewNotFoundMessage("Category " + category + " not found")
	}
	posts, err := s.postRepo.ListByCategory(ctx, normalized, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (s *PostService) ListPostsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// SearchPosts matches the query against titles, bodies, and category names.
// A blank query is not an error; it matches nothing.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Post{}, nil
	}
	posts, err := s.postRepo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 10000 characters)")
		}
		post.Content = *in.Content
	}
	if in.Category != nil {
		if !models.IsValidCategory(*in.Category) {
			return nil, invalidCategoryError()
		}
		post.Category = *in.Category
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.GetPost(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
