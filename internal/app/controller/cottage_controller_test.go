package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/app/service"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	"github.com/PeterSayer/CottageChooser/internal/db"
)

func setupCottageControllerTest(t *testing.T) (*CottageController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cottageRepo := repository.NewCottageRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)
	voteRepo := repository.NewVoteRepository(testDB)
	policy := authz.NewPolicy([]string{"admin"}, nil)
	cottageService := service.NewCottageService(cottageRepo, ratingRepo, voteRepo, policy)
	cottageController := NewCottageController(cottageService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cottageController, router, testDB
}

func jsonRequest(method, path string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCottageController_Create_Success(t *testing.T) {
	controller, router, _ := setupCottageControllerTest(t)

	router.POST("/cottages", func(c *gin.Context) {
		setUserNameInContext(c, "carol")
		controller.Create(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/cottages", map[string]interface{}{
		"name":        "Seaview Cottage",
		"location":    "Whitby",
		"price":       "£950",
		"beds":        3,
		"dogs_allowed": true,
		"hottub":      true,
	}))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response model.Cottage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.NotZero(t, response.ID)
	assert.Equal(t, "Seaview Cottage", response.Name)
	assert.Equal(t, "carol", response.SubmittedBy)
	assert.True(t, response.HotTub)
	assert.Equal(t, 0, response.Votes)
}

func TestCottageController_Create_MissingName(t *testing.T) {
	controller, router, _ := setupCottageControllerTest(t)

	router.POST("/cottages", func(c *gin.Context) {
		setUserNameInContext(c, "carol")
		controller.Create(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/cottages", map[string]interface{}{
		"location": "Whitby",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCottageController_List_SortedByVotes(t *testing.T) {
	controller, router, testDB := setupCottageControllerTest(t)

	testDB.Create(&model.Cottage{Name: "Moor View", SubmittedBy: "carol", Votes: 1})
	testDB.Create(&model.Cottage{Name: "Seaview Cottage", SubmittedBy: "peter", Votes: 3})

	router.GET("/cottages", func(c *gin.Context) {
		setUserNameInContext(c, "carol")
		controller.List(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cottages", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Cottages []service.CottageView `json:"cottages"`
		Count    int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Equal(t, 2, response.Count)
	assert.Equal(t, "Seaview Cottage", response.Cottages[0].Name)
	assert.Equal(t, "Moor View", response.Cottages[1].Name)
}

func TestCottageController_List_InvalidSort(t *testing.T) {
	controller, router, _ := setupCottageControllerTest(t)

	router.GET("/cottages", func(c *gin.Context) {
		setUserNameInContext(c, "carol")
		controller.List(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cottages?sort=price", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCottageController_Get_NotFound(t *testing.T) {
	controller, router, _ := setupCottageControllerTest(t)

	router.GET("/cottages/:id", func(c *gin.Context) {
		setUserNameInContext(c, "carol")
		controller.Get(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cottages/9999", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCottageController_Update_OwnerOnly(t *testing.T) {
	controller, router, testDB := setupCottageControllerTest(t)

	cottage := &model.Cottage{Name: "Moor View", SubmittedBy: "carol"}
	testDB.Create(cottage)

	router.PUT("/cottages/:id", func(c *gin.Context) {
		setUserNameInContext(c, "carol")
		controller.Update(c)
	})
	router.PUT("/admin/cottages/:id", func(c *gin.Context) {
		setUserNameInContext(c, "admin")
		controller.Update(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPut, "/cottages/"+itoa(cottage.ID), map[string]interface{}{
		"price": "£875",
	}))
	assert.Equal(t, http.StatusOK, w.Code)

	// editing stays with the owner, even for admins
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPut, "/admin/cottages/"+itoa(cottage.ID), map[string]interface{}{
		"price": "£1",
	}))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCottageController_Delete_AdminAllowed(t *testing.T) {
	controller, router, testDB := setupCottageControllerTest(t)

	cottage := &model.Cottage{Name: "Moor View", SubmittedBy: "carol"}
	testDB.Create(cottage)

	router.DELETE("/cottages/:id", func(c *gin.Context) {
		setUserNameInContext(c, "admin")
		controller.Delete(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cottages/"+itoa(cottage.ID), nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	testDB.Model(&model.Cottage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCottageController_Delete_StrangerForbidden(t *testing.T) {
	controller, router, testDB := setupCottageControllerTest(t)

	cottage := &model.Cottage{Name: "Moor View", SubmittedBy: "carol"}
	testDB.Create(cottage)

	router.DELETE("/cottages/:id", func(c *gin.Context) {
		setUserNameInContext(c, "dave")
		controller.Delete(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cottages/"+itoa(cottage.ID), nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
