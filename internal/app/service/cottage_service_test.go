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

func setupCottageServiceTest(t *testing.T) (CottageService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cottageRepo := repository.NewCottageRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)
	voteRepo := repository.NewVoteRepository(testDB)
	policy := authz.NewPolicy([]string{"admin"}, nil)

	return NewCottageService(cottageRepo, ratingRepo, voteRepo, policy), testDB
}

func TestCottageService_Create(t *testing.T) {
	cottageService, _ := setupCottageServiceTest(t)

	cottage, err := cottageService.Create("Peter", &model.CreateCottageRequest{
		Name:        "Seaview Cottage",
		Location:    "Cornwall",
		Price:       "£1200",
		Beds:        4,
		DogsAllowed: true,
		HotTub:      true,
		Description: "<p>Lovely views</p><script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Peter", cottage.SubmittedBy)
	assert.Equal(t, "<p>Lovely views</p>", cottage.Description)
	assert.True(t, cottage.HotTub)
	assert.Equal(t, 0, cottage.Votes)
}

func TestCottageService_List_AnnotatesUserState(t *testing.T) {
	cottageService, testDB := setupCottageServiceTest(t)

	seaview, err := cottageService.Create("Peter", &model.CreateCottageRequest{Name: "Seaview Cottage"})
	require.NoError(t, err)
	_, err = cottageService.Create("Carol", &model.CreateCottageRequest{Name: "Moor View"})
	require.NoError(t, err)

	testDB.Create(&model.Vote{CottageID: seaview.ID, UserName: "dave", VotedAt: model.Timestamp()})
	testDB.Model(&model.Cottage{}).Where("id = ?", seaview.ID).UpdateColumn("votes", 1)
	testDB.Create(&model.Rating{CottageID: seaview.ID, UserName: "dave", Rating: 9, RatedAt: model.Timestamp()})

	views, err := cottageService.List("dave", "")
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Seaview leads on votes and carries dave's state.
	assert.Equal(t, "Seaview Cottage", views[0].Name)
	assert.True(t, views[0].UserVoted)
	require.NotNil(t, views[0].UserRating)
	assert.Equal(t, 9, *views[0].UserRating)
	assert.Equal(t, 1, views[0].RatingStats.Count)

	assert.False(t, views[1].UserVoted)
	assert.Nil(t, views[1].UserRating)
}

func TestCottageService_List_Anonymous(t *testing.T) {
	cottageService, _ := setupCottageServiceTest(t)

	_, err := cottageService.Create("Peter", &model.CreateCottageRequest{Name: "Seaview Cottage"})
	require.NoError(t, err)

	views, err := cottageService.List("", "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].UserVoted)
	assert.Nil(t, views[0].UserRating)
}

func TestCottageService_Get(t *testing.T) {
	cottageService, testDB := setupCottageServiceTest(t)

	cottage, err := cottageService.Create("Peter", &model.CreateCottageRequest{Name: "Seaview Cottage"})
	require.NoError(t, err)
	testDB.Create(&model.Comment{CottageID: cottage.ID, Author: "carol", Text: "lovely", CreatedAt: model.Timestamp()})

	view, err := cottageService.Get(cottage.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Seaview Cottage", view.Name)
	assert.Len(t, view.Comments, 1)

	_, err = cottageService.Get(9999, "")
	assert.ErrorIs(t, err, ErrCottageNotFound)
}

func TestCottageService_Get_ListsVoters(t *testing.T) {
	cottageService, testDB := setupCottageServiceTest(t)

	cottage, err := cottageService.Create("Peter", &model.CreateCottageRequest{Name: "Seaview Cottage"})
	require.NoError(t, err)

	testDB.Create(&model.Vote{CottageID: cottage.ID, UserName: "carol", VotedAt: "2026-08-01 10:00:00"})
	testDB.Create(&model.Vote{CottageID: cottage.ID, UserName: "dave", VotedAt: "2026-08-02 10:00:00"})
	testDB.Model(&model.Cottage{}).Where("id = ?", cottage.ID).UpdateColumn("votes", 2)

	view, err := cottageService.Get(cottage.ID, "carol")
	require.NoError(t, err)
	require.Len(t, view.Voters, 2)

	// newest vote first
	assert.Equal(t, "dave", view.Voters[0].UserName)
	assert.Equal(t, "carol", view.Voters[1].UserName)
	assert.Equal(t, "2026-08-02 10:00:00", view.Voters[0].VotedAt)
	assert.True(t, view.UserVoted)
}

func TestCottageService_Update(t *testing.T) {
	cottageService, _ := setupCottageServiceTest(t)

	cottage, err := cottageService.Create("Peter", &model.CreateCottageRequest{Name: "Seaview Cottage", Beds: 4})
	require.NoError(t, err)

	newName := "Seaview Retreat"
	hotTub := true
	desc := "<p>Now with <strong>hot tub</strong></p><img src=x>"

	t.Run("Owner updates", func(t *testing.T) {
		updated, err := cottageService.Update("peter", cottage.ID, &model.UpdateCottageRequest{
			Name:        &newName,
			HotTub:      &hotTub,
			Description: &desc,
		})
		require.NoError(t, err)
		assert.Equal(t, "Seaview Retreat", updated.Name)
		assert.Equal(t, 4, updated.Beds)
		assert.True(t, updated.HotTub)
		assert.Equal(t, "<p>Now with <strong>hot tub</strong></p>", updated.Description)
	})

	t.Run("Admin cannot edit another member's cottage", func(t *testing.T) {
		_, err := cottageService.Update("admin", cottage.ID, &model.UpdateCottageRequest{Name: &newName})
		assert.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("Stranger denied", func(t *testing.T) {
		_, err := cottageService.Update("dave", cottage.ID, &model.UpdateCottageRequest{Name: &newName})
		assert.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("Unknown cottage", func(t *testing.T) {
		_, err := cottageService.Update("peter", 9999, &model.UpdateCottageRequest{Name: &newName})
		assert.ErrorIs(t, err, ErrCottageNotFound)
	})
}

func TestCottageService_Delete(t *testing.T) {
	cottageService, testDB := setupCottageServiceTest(t)

	t.Run("Owner deletes", func(t *testing.T) {
		cottage, err := cottageService.Create("Peter", &model.CreateCottageRequest{Name: "Seaview Cottage"})
		require.NoError(t, err)

		err = cottageService.Delete(" PETER ", cottage.ID)
		assert.NoError(t, err)
	})

	t.Run("Admin deletes another member's cottage", func(t *testing.T) {
		cottage, err := cottageService.Create("Carol", &model.CreateCottageRequest{Name: "Moor View"})
		require.NoError(t, err)

		err = cottageService.Delete("admin", cottage.ID)
		assert.NoError(t, err)

		var count int64
		testDB.Model(&model.Cottage{}).Count(&count)
		assert.EqualValues(t, 0, count)
	})

	t.Run("Stranger denied", func(t *testing.T) {
		cottage, err := cottageService.Create("Carol", &model.CreateCottageRequest{Name: "Glen Bothy"})
		require.NoError(t, err)

		err = cottageService.Delete("dave", cottage.ID)
		assert.ErrorIs(t, err, ErrNotAllowed)
	})
}
