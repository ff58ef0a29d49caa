package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/db"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
)

func setupVoteTest(t *testing.T) (*gorm.DB, VoteRepository, *model.Cottage) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewVoteRepository(testDB)

	cottage := &model.Cottage{
		Name:        "Seaview Cottage",
		SubmittedBy: "peter",
	}
	testDB.Create(cottage)

	return testDB, repo, cottage
}

func TestVoteRepository_Cast(t *testing.T) {
	testDB, repo, cottage := setupVoteTest(t)
	defer db.CleanupTestDB(testDB)

	vote := &model.Vote{
		CottageID: cottage.ID,
		UserName:  "carol",
		VotedAt:   model.Timestamp(),
	}

	votes, err := repo.Cast(vote)
	assert.NoError(t, err)
	assert.NotZero(t, vote.ID)
	assert.Equal(t, 1, votes)

	// Counter on the cottage row moved with the insert.
	var refreshed model.Cottage
	testDB.First(&refreshed, cottage.ID)
	assert.Equal(t, 1, refreshed.Votes)
}

func TestVoteRepository_Cast_SecondVoteRejected(t *testing.T) {
	testDB, repo, cottage := setupVoteTest(t)
	defer db.CleanupTestDB(testDB)

	other := &model.Cottage{Name: "Moor View", SubmittedBy: "carol"}
	testDB.Create(other)

	_, err := repo.Cast(&model.Vote{CottageID: cottage.ID, UserName: "carol", VotedAt: model.Timestamp()})
	require.NoError(t, err)

	_, err = repo.Cast(&model.Vote{CottageID: other.ID, UserName: "carol", VotedAt: model.Timestamp()})
	assert.Error(t, err)
	assert.True(t, apperrors.IsDuplicateKey(err))

	// The failed transaction must not have bumped the other counter.
	var refreshed model.Cottage
	testDB.First(&refreshed, other.ID)
	assert.Equal(t, 0, refreshed.Votes)
}

func TestVoteRepository_FindByUserName(t *testing.T) {
	testDB, repo, cottage := setupVoteTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.Cast(&model.Vote{CottageID: cottage.ID, UserName: "dave", VotedAt: model.Timestamp()})
	require.NoError(t, err)

	vote, err := repo.FindByUserName("dave")
	assert.NoError(t, err)
	assert.Equal(t, cottage.ID, vote.CottageID)

	_, err = repo.FindByUserName("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVoteRepository_Delete(t *testing.T) {
	testDB, repo, cottage := setupVoteTest(t)
	defer db.CleanupTestDB(testDB)

	vote := &model.Vote{CottageID: cottage.ID, UserName: "carol", VotedAt: model.Timestamp()}
	_, err := repo.Cast(vote)
	require.NoError(t, err)

	votes, err := repo.Delete(vote.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, votes)

	var refreshed model.Cottage
	testDB.First(&refreshed, cottage.ID)
	assert.Equal(t, 0, refreshed.Votes)
}

func TestVoteRepository_Delete_ClampsAtZero(t *testing.T) {
	testDB, repo, cottage := setupVoteTest(t)
	defer db.CleanupTestDB(testDB)

	// Simulate a drifted counter already at zero.
	vote := &model.Vote{CottageID: cottage.ID, UserName: "carol", VotedAt: model.Timestamp()}
	require.NoError(t, testDB.Create(vote).Error)

	votes, err := repo.Delete(vote.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, votes)
}

func TestVoteRepository_Delete_NotFound(t *testing.T) {
	testDB, repo, _ := setupVoteTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.Delete(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVoteRepository_CountByCottageID(t *testing.T) {
	testDB, repo, cottage := setupVoteTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.Cast(&model.Vote{CottageID: cottage.ID, UserName: "carol", VotedAt: model.Timestamp()})
	require.NoError(t, err)
	_, err = repo.Cast(&model.Vote{CottageID: cottage.ID, UserName: "dave", VotedAt: model.Timestamp()})
	require.NoError(t, err)

	count, err := repo.CountByCottageID(cottage.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
