package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterSayer/CottageChooser/config"
	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	"github.com/PeterSayer/CottageChooser/internal/db"
)

func setupSummaryServiceTest(t *testing.T, cfg *config.OpenAIConfig) (SummaryService, *model.Cottage, repository.CommentRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cottageRepo := repository.NewCottageRepository(testDB)
	commentRepo := repository.NewCommentRepository(testDB)
	policy := authz.NewPolicy([]string{"admin"}, nil)
	summaryService := NewSummaryService(cottageRepo, commentRepo, policy, cfg)

	cottage := &model.Cottage{Name: "Seaview Cottage", SubmittedBy: "peter"}
	testDB.Create(cottage)

	return summaryService, cottage, commentRepo
}

func TestSummaryService_Generate_AdminOnly(t *testing.T) {
	summaryService, cottage, _ := setupSummaryServiceTest(t, &config.OpenAIConfig{APIKey: "test-key"})

	_, err := summaryService.Generate(context.Background(), "carol", cottage.ID)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestSummaryService_Generate_NotConfigured(t *testing.T) {
	summaryService, cottage, _ := setupSummaryServiceTest(t, &config.OpenAIConfig{})

	_, err := summaryService.Generate(context.Background(), "admin", cottage.ID)
	assert.ErrorIs(t, err, ErrSummaryNotConfigured)
}

func TestSummaryService_Generate_CottageNotFound(t *testing.T) {
	summaryService, _, _ := setupSummaryServiceTest(t, &config.OpenAIConfig{APIKey: "test-key"})

	_, err := summaryService.Generate(context.Background(), "admin", 9999)
	assert.ErrorIs(t, err, ErrCottageNotFound)
}

func TestSummaryService_Generate_NoComments(t *testing.T) {
	summaryService, cottage, _ := setupSummaryServiceTest(t, &config.OpenAIConfig{APIKey: "test-key"})

	_, err := summaryService.Generate(context.Background(), "admin", cottage.ID)
	assert.ErrorIs(t, err, ErrNoComments)
}
