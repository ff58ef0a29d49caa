package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/service"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/internal/middleware"
)

type CottageController struct {
	cottageService service.CottageService
}

func NewCottageController(cottageService service.CottageService) *CottageController {
	return &CottageController{
		cottageService: cottageService,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// List returns all cottages with rating aggregates
// GET /api/v1/cottages
func (ctrl *CottageController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query model.CottageListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid sort parameter")
		return
	}

	userName, _ := middleware.GetUserName(c)

	views, err := ctrl.cottageService.List(userName, query.Sort)
	if err != nil {
		log.Error("Failed to list cottages", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cottage")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cottages": views,
		"count":    len(views),
	})
}

// Compare returns all cottages side by side, sorted by name
// GET /api/v1/cottages/compare
func (ctrl *CottageController) Compare(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userName, _ := middleware.GetUserName(c)

	views, err := ctrl.cottageService.List(userName, "name")
	if err != nil {
		log.Error("Failed to build comparison", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cottage")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cottages": views,
		"count":    len(views),
	})
}

// Get returns one cottage with its comments
// GET /api/v1/cottages/:id
func (ctrl *CottageController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	view, err := ctrl.cottageService.Get(id, userName)
	if err != nil {
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		log.Error("Failed to fetch cottage", err, map[string]interface{}{
			"cottage_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cottage")
		return
	}

	c.JSON(http.StatusOK, view)
}

// Create proposes a new cottage
// POST /api/v1/cottages
func (ctrl *CottageController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userName, _ := middleware.GetUserName(c)

	var req model.CreateCottageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create cottage request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A cottage needs at least a name")
		return
	}

	cottage, err := ctrl.cottageService.Create(userName, &req)
	if err != nil {
		log.Error("Failed to create cottage", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cottage")
		return
	}

	log.Info("Cottage created", map[string]interface{}{
		"cottage_id": cottage.ID,
		"user_name":  userName,
	})

	c.JSON(http.StatusCreated, cottage)
}

// Update edits a cottage, owner only
// PUT /api/v1/cottages/:id
func (ctrl *CottageController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	var req model.UpdateCottageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cottage request", map[string]interface{}{
			"cottage_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cottage, err := ctrl.cottageService.Update(userName, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		if errors.Is(err, service.ErrNotAllowed) {
			apperrors.Forbidden(c, "Only the member who suggested a cottage can edit it")
			return
		}
		log.Error("Failed to update cottage", err, map[string]interface{}{
			"cottage_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cottage")
		return
	}

	c.JSON(http.StatusOK, cottage)
}

// Delete removes a cottage, owner or admin
// DELETE /api/v1/cottages/:id
func (ctrl *CottageController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	err := ctrl.cottageService.Delete(userName, id)
	if err != nil {
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		if errors.Is(err, service.ErrNotAllowed) {
			apperrors.Forbidden(c, "Only the owner or an admin can delete a cottage")
			return
		}
		log.Error("Failed to delete cottage", err, map[string]interface{}{
			"cottage_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cottage")
		return
	}

	log.Info("Cottage deleted", map[string]interface{}{
		"cottage_id": id,
		"user_name":  userName,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cottage deleted successfully",
	})
}
