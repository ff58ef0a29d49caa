package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PeterSayer/CottageChooser/internal/app/service"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/internal/middleware"
)

type SummaryController struct {
	summaryService service.SummaryService
}

func NewSummaryController(summaryService service.SummaryService) *SummaryController {
	return &SummaryController{
		summaryService: summaryService,
	}
}

// Generate builds an AI summary of a cottage's comments and stores it
// on the cottage. Admins only.
// POST /api/v1/cottages/:id/summary
func (ctrl *SummaryController) Generate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cottageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	summary, err := ctrl.summaryService.Generate(c.Request.Context(), userName, cottageID)
	if err != nil {
		if errors.Is(err, service.ErrNotAllowed) {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Only admins can generate summaries")
			return
		}
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		if errors.Is(err, service.ErrSummaryNotConfigured) {
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.SummaryNotConfigured, "AI summaries are not configured")
			return
		}
		if errors.Is(err, service.ErrNoComments) {
			apperrors.BadRequest(c, apperrors.SummaryNoComments, "This cottage has no comments to summarize")
			return
		}
		log.Error("Failed to generate summary", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "summary")
		return
	}

	log.Info("Summary generated", map[string]interface{}{
		"cottage_id": cottageID,
		"user_name":  userName,
	})

	c.JSON(http.StatusOK, gin.H{
		"cottage_id":        cottageID,
		"ai_review_summary": summary,
	})
}
