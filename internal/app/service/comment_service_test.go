package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	"github.com/PeterSayer/CottageChooser/internal/db"
)

func setupCommentServiceTest(t *testing.T) (CommentService, *model.Cottage, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	commentRepo := repository.NewCommentRepository(testDB)
	cottageRepo := repository.NewCottageRepository(testDB)
	policy := authz.NewPolicy([]string{"admin"}, nil)
	commentService := NewCommentService(commentRepo, cottageRepo, policy)

	cottage := &model.Cottage{Name: "Seaview Cottage", SubmittedBy: "peter"}
	testDB.Create(cottage)

	return commentService, cottage, testDB
}

func TestCommentService_Create(t *testing.T) {
	commentService, cottage, _ := setupCommentServiceTest(t)

	comment, err := commentService.Create("carol", cottage.ID, "<p>Lovely spot</p><script>x()</script>")
	require.NoError(t, err)
	assert.Equal(t, "carol", comment.Author)
	assert.Equal(t, "<p>Lovely spot</p>", comment.Text)
	assert.NotEmpty(t, comment.CreatedAt)
}

func TestCommentService_Create_CottageNotFound(t *testing.T) {
	commentService, _, _ := setupCommentServiceTest(t)

	_, err := commentService.Create("carol", 9999, "hello")
	assert.ErrorIs(t, err, ErrCottageNotFound)
}

func TestCommentService_Create_EmptyAfterSanitize(t *testing.T) {
	commentService, cottage, _ := setupCommentServiceTest(t)

	_, err := commentService.Create("carol", cottage.ID, "<script>alert(1)</script>")
	assert.ErrorIs(t, err, ErrCommentEmpty)
}

func TestCommentService_Update(t *testing.T) {
	commentService, cottage, _ := setupCommentServiceTest(t)

	comment, err := commentService.Create("carol", cottage.ID, "first take")
	require.NoError(t, err)

	t.Run("Author edits", func(t *testing.T) {
		updated, err := commentService.Update("Carol", comment.ID, "second take")
		require.NoError(t, err)
		assert.Equal(t, "second take", updated.Text)
	})

	t.Run("Admin cannot edit another member's comment", func(t *testing.T) {
		_, err := commentService.Update("admin", comment.ID, "hijacked")
		assert.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("Unknown comment", func(t *testing.T) {
		_, err := commentService.Update("carol", 9999, "text")
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}

func TestCommentService_Delete(t *testing.T) {
	commentService, cottage, testDB := setupCommentServiceTest(t)

	t.Run("Author deletes", func(t *testing.T) {
		comment, err := commentService.Create("carol", cottage.ID, "oops")
		require.NoError(t, err)

		err = commentService.Delete("carol", comment.ID)
		assert.NoError(t, err)
	})

	t.Run("Admin deletes another member's comment", func(t *testing.T) {
		comment, err := commentService.Create("dave", cottage.ID, "rude remark")
		require.NoError(t, err)

		err = commentService.Delete("admin", comment.ID)
		assert.NoError(t, err)

		var count int64
		testDB.Model(&model.Comment{}).Count(&count)
		assert.EqualValues(t, 0, count)
	})

	t.Run("Stranger denied", func(t *testing.T) {
		comment, err := commentService.Create("dave", cottage.ID, "mine")
		require.NoError(t, err)

		err = commentService.Delete("carol", comment.ID)
		assert.ErrorIs(t, err, ErrNotAllowed)
	})
}

func TestCommentService_ListByCottage(t *testing.T) {
	commentService, cottage, _ := setupCommentServiceTest(t)

	_, err := commentService.Create("carol", cottage.ID, "first")
	require.NoError(t, err)
	_, err = commentService.Create("dave", cottage.ID, "second")
	require.NoError(t, err)

	comments, err := commentService.ListByCottage(cottage.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	_, err = commentService.ListByCottage(9999)
	assert.ErrorIs(t, err, ErrCottageNotFound)
}
