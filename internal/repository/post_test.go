package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	post := &models.Post{Text: "Тестовый пост", AuthorID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), post))
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Count_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE author_id = $1 AND group_id = $2`)).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	n, err := repo.Count(context.Background(), PostFilter{AuthorID: 3, GroupID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_SQLOrdering(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE group_id = $1 ORDER BY created_at DESC,id DESC LIMIT $2 OFFSET $3`)).
		WithArgs(2, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "author_id"}))

	posts, err := repo.List(context.Background(), PostFilter{GroupID: 2}, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "auth")
	group := createGroup(t, db, "g")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		post := &models.Post{
			Text:      fmt.Sprintf("Пост %d", i),
			AuthorID:  author.ID,
			GroupID:   &group.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, post))
	}

	first, err := repo.List(ctx, PostFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "Пост 12", first[0].Text)
	assert.Equal(t, "auth", first[0].Author.Username)
	require.NotNil(t, first[0].Group)
	assert.Equal(t, "g", first[0].Group.Slug)

	second, err := repo.List(ctx, PostFilter{}, 10, 10)
	require.NoError(t, err)
	assert.Len(t, second, 3)
	assert.Equal(t, "Пост 0", second[2].Text)
}

func TestPostRepository_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "auth")
	other := createUser(t, db, "other")
	group := createGroup(t, db, "g1")
	unrelated := createGroup(t, db, "g2")

	require.NoError(t, repo.Create(ctx, &models.Post{Text: "в группе", AuthorID: author.ID, GroupID: &group.ID}))
	require.NoError(t, repo.Create(ctx, &models.Post{Text: "без группы", AuthorID: other.ID}))

	count := func(f PostFilter) int64 {
		n, err := repo.Count(ctx, f)
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, int64(2), count(PostFilter{}))
	assert.Equal(t, int64(1), count(PostFilter{AuthorID: author.ID}))
	assert.Equal(t, int64(1), count(PostFilter{GroupID: group.ID}))
	assert.Equal(t, int64(0), count(PostFilter{GroupID: unrelated.ID}))
}

func TestPostRepository_UpdateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "auth")
	group := createGroup(t, db, "g")

	post := &models.Post{Text: "Старый текст", AuthorID: author.ID, GroupID: &group.ID}
	require.NoError(t, repo.Create(ctx, post))

	post.Text = "Новый текст"
	post.GroupID = nil
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", got.Text)
	assert.Nil(t, got.GroupID)
	assert.Equal(t, "auth", got.Author.Username)
}

func TestPostRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "auth")

	post := &models.Post{Text: "Удалить", AuthorID: author.ID}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, post.ID)))
}

func TestPostRepository_GroupDeleteSetsNull(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "auth")
	group := createGroup(t, db, "gone")

	post := &models.Post{Text: "Пост", AuthorID: author.ID, GroupID: &group.ID}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, db.Delete(&models.Group{}, group.ID).Error)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
}
