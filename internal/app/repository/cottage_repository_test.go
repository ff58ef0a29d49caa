package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/db"
)

func setupCottageTest(t *testing.T) (*gorm.DB, CottageRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	return testDB, NewCottageRepository(testDB)
}

func TestCottageRepository_Create(t *testing.T) {
	testDB, repo := setupCottageTest(t)
	defer db.CleanupTestDB(testDB)

	cottage := &model.Cottage{
		Name:        "Seaview Cottage",
		Location:    "Cornwall",
		Price:       "£1200",
		Beds:        4,
		DogsAllowed: true,
		HotTub:      true,
		SubmittedBy: "peter",
	}

	err := repo.Create(cottage)
	assert.NoError(t, err)
	assert.NotZero(t, cottage.ID)
	assert.Equal(t, 0, cottage.Votes)
}

func TestCottageRepository_FindAll_Ordering(t *testing.T) {
	testDB, repo := setupCottageTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Cottage{Name: "Bravo", Votes: 1, SubmittedBy: "peter"}))
	require.NoError(t, repo.Create(&model.Cottage{Name: "Alpha", Votes: 3, SubmittedBy: "carol"}))
	require.NoError(t, repo.Create(&model.Cottage{Name: "Charlie", Votes: 3, SubmittedBy: "dave"}))

	t.Run("Default sorts by votes then name", func(t *testing.T) {
		cottages, err := repo.FindAll("")
		require.NoError(t, err)
		require.Len(t, cottages, 3)
		assert.Equal(t, "Alpha", cottages[0].Name)
		assert.Equal(t, "Charlie", cottages[1].Name)
		assert.Equal(t, "Bravo", cottages[2].Name)
	})

	t.Run("Name sort", func(t *testing.T) {
		cottages, err := repo.FindAll("name")
		require.NoError(t, err)
		require.Len(t, cottages, 3)
		assert.Equal(t, "Alpha", cottages[0].Name)
		assert.Equal(t, "Bravo", cottages[1].Name)
		assert.Equal(t, "Charlie", cottages[2].Name)
	})
}

func TestCottageRepository_FindByID_NotFound(t *testing.T) {
	testDB, repo := setupCottageTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindByID(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCottageRepository_Delete_CascadesChildren(t *testing.T) {
	testDB, repo := setupCottageTest(t)
	defer db.CleanupTestDB(testDB)

	cottage := &model.Cottage{Name: "Seaview Cottage", SubmittedBy: "peter"}
	require.NoError(t, repo.Create(cottage))

	testDB.Create(&model.Comment{CottageID: cottage.ID, Author: "carol", Text: "lovely", CreatedAt: model.Timestamp()})
	testDB.Create(&model.Vote{CottageID: cottage.ID, UserName: "carol", VotedAt: model.Timestamp()})
	testDB.Create(&model.Rating{CottageID: cottage.ID, UserName: "carol", Rating: 9, RatedAt: model.Timestamp()})

	err := repo.Delete(cottage.ID)
	assert.NoError(t, err)

	var comments, votes, ratings int64
	testDB.Model(&model.Comment{}).Where("cottage_id = ?", cottage.ID).Count(&comments)
	testDB.Model(&model.Vote{}).Where("cottage_id = ?", cottage.ID).Count(&votes)
	testDB.Model(&model.Rating{}).Where("cottage_id = ?", cottage.ID).Count(&ratings)
	assert.Zero(t, comments)
	assert.Zero(t, votes)
	assert.Zero(t, ratings)

	_, err = repo.FindByID(cottage.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCottageRepository_UpdateSummary(t *testing.T) {
	testDB, repo := setupCottageTest(t)
	defer db.CleanupTestDB(testDB)

	cottage := &model.Cottage{Name: "Seaview Cottage", SubmittedBy: "peter"}
	require.NoError(t, repo.Create(cottage))

	err := repo.UpdateSummary(cottage.ID, "Everyone loved the hot tub.")
	assert.NoError(t, err)

	refreshed, err := repo.FindByID(cottage.ID)
	require.NoError(t, err)
	assert.Equal(t, "Everyone loved the hot tub.", refreshed.AIReviewSummary)
}

func TestCottageRepository_RecountVotes(t *testing.T) {
	testDB, repo := setupCottageTest(t)
	defer db.CleanupTestDB(testDB)

	// Counter drifted to 5 while only two real votes exist.
	cottage := &model.Cottage{Name: "Seaview Cottage", SubmittedBy: "peter", Votes: 5}
	require.NoError(t, repo.Create(cottage))
	testDB.Create(&model.Vote{CottageID: cottage.ID, UserName: "carol", VotedAt: model.Timestamp()})
	testDB.Create(&model.Vote{CottageID: cottage.ID, UserName: "dave", VotedAt: model.Timestamp()})

	ok := &model.Cottage{Name: "Moor View", SubmittedBy: "carol", Votes: 0}
	require.NoError(t, repo.Create(ok))

	corrected, err := repo.RecountVotes()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, corrected)

	refreshed, err := repo.FindByID(cottage.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.Votes)
}
