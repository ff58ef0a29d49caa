package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/service"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/internal/middleware"
)

type RatingController struct {
	ratingService service.RatingService
}

func NewRatingController(ratingService service.RatingService) *RatingController {
	return &RatingController{
		ratingService: ratingService,
	}
}

// Submit records or replaces the caller's rating for a cottage
// POST /api/v1/cottages/:id/rating
func (ctrl *RatingController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cottageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Rating must be a number between 0 and 10")
		return
	}

	userName, _ := middleware.GetUserName(c)

	result, err := ctrl.ratingService.Submit(userName, cottageID, req.Rating)
	if err != nil {
		if errors.Is(err, service.ErrRatingOutOfRange) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Rating must be between 0 and 10")
			return
		}
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		log.Error("Failed to submit rating", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "rating")
		return
	}

	log.Info("Rating submitted", map[string]interface{}{
		"cottage_id": cottageID,
		"user_name":  userName,
		"rating":     req.Rating,
	})

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"rating":  result.Rating,
		"count":   result.Stats.Count,
		"average": result.Stats.Average,
		"total":   result.Stats.Total,
	})
}

// Remove deletes the caller's own rating
// DELETE /api/v1/cottages/:id/rating
func (ctrl *RatingController) Remove(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cottageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	result, err := ctrl.ratingService.Remove(userName, cottageID)
	if err != nil {
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		if errors.Is(err, service.ErrRatingNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "You have not rated this cottage")
			return
		}
		log.Error("Failed to remove rating", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "rating")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"rating":  nil,
		"count":   result.Stats.Count,
		"average": result.Stats.Average,
		"total":   result.Stats.Total,
	})
}

// ListForCottage returns who rated what, admins only
// GET /api/v1/cottages/:id/ratings
func (ctrl *RatingController) ListForCottage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cottageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	ratings, err := ctrl.ratingService.ListForCottage(userName, cottageID)
	if err != nil {
		if errors.Is(err, service.ErrNotAllowed) {
			apperrors.Forbidden(c, "Only admins can view individual ratings")
			return
		}
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		log.Error("Failed to list ratings", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "rating")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cottage_id": cottageID,
		"ratings":    ratings,
	})
}
