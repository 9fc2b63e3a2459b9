package repository

import (
	"context"
	"regexp"
	"testing"

	"quorum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{Title: "Why channels beat callbacks", Content: "Long form take", Category: "Node.js", UserID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" ORDER BY created_at DESC LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "user_id"}).
			AddRow(2, "Newer post", "React", 101).
			AddRow(1, "Older post", "JavaScript", 102))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2)`)).
		WithArgs(101, 102).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(101, "user101").
			AddRow(102, "user102"))

	posts, err := repo.List(ctx, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "Newer post", posts[0].Title)
	assert.Equal(t, "user101", posts[0].User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByCategory(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE category = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("React", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "user_id"}).
			AddRow(3, "Hooks deep dive", "React", 101))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(101, "user101"))

	posts, err := repo.ListByCategory(ctx, "React", 20, 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "React", posts[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Search_EscapesLikeMetacharacters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE LOWER(title) LIKE $1 ESCAPE '\' OR LOWER(content) LIKE $2 ESCAPE '\' OR LOWER(category) LIKE $3 ESCAPE '\' ORDER BY created_at DESC LIMIT $4`)).
		WithArgs(`%100\%\_go%`, `%100\%\_go%`, `%100\%\_go%`, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "category", "user_id"}))

	posts, err := repo.Search(ctx, "100%_Go", 20, 0)
	assert.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_RemovesRepliesInSameTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "replies" WHERE post_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE "posts"."id" = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, &models.Post{ID: 5, Category: "React"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `plain`, escapeLike(`plain`))
	assert.Equal(t, `\%`, escapeLike(`%`))
	assert.Equal(t, `\_`, escapeLike(`_`))
	assert.Equal(t, `\\`, escapeLike(`\`))
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
