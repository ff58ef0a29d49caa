package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PeterSayer/CottageChooser/internal/app/service"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/internal/middleware"
)

type VoteController struct {
	voteService service.VoteService
}

func NewVoteController(voteService service.VoteService) *VoteController {
	return &VoteController{
		voteService: voteService,
	}
}

// Cast votes for a cottage. The response always carries a status field
// so the frontend can react without inspecting HTTP codes:
// "ok", "already_voted" or "already_voted_elsewhere".
// POST /api/v1/cottages/:id/vote
func (ctrl *VoteController) Cast(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cottageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	result, err := ctrl.voteService.Cast(userName, cottageID)
	if err != nil {
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		if errors.Is(err, service.ErrAlreadyVoted) {
			log.Warn("Repeat vote on same cottage", map[string]interface{}{
				"cottage_id": cottageID,
				"user_name":  userName,
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "already_voted",
				"error":   apperrors.VoteAlreadyCast,
				"message": "You have already voted for this cottage",
				"votes":   result.Votes,
			})
			return
		}
		var elsewhere *service.VoteElsewhereError
		if errors.As(err, &elsewhere) {
			log.Warn("Vote parked on another cottage", map[string]interface{}{
				"cottage_id":       cottageID,
				"user_name":        userName,
				"voted_cottage_id": elsewhere.CottageID,
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"status":     "already_voted_elsewhere",
				"error":      apperrors.VoteElsewhere,
				"message":    "You have already voted for another cottage. Retract that vote first.",
				"cottage_id": elsewhere.CottageID,
				"vote_id":    elsewhere.VoteID,
			})
			return
		}
		log.Error("Failed to cast vote", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "vote")
		return
	}

	log.Info("Vote cast", map[string]interface{}{
		"vote_id":    result.Vote.ID,
		"cottage_id": cottageID,
		"user_name":  userName,
	})

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"vote_id": result.Vote.ID,
		"votes":   result.Votes,
	})
}

// Retract removes a vote, voter or admin
// DELETE /api/v1/votes/:id
func (ctrl *VoteController) Retract(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	voteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	result, err := ctrl.voteService.Retract(userName, voteID)
	if err != nil {
		if errors.Is(err, service.ErrVoteNotFound) {
			apperrors.NotFound(c, apperrors.VoteNotFound, "Vote not found")
			return
		}
		if errors.Is(err, service.ErrNotAllowed) {
			apperrors.Forbidden(c, "Only the voter or an admin can retract a vote")
			return
		}
		log.Error("Failed to retract vote", err, map[string]interface{}{
			"vote_id": voteID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "vote")
		return
	}

	log.Info("Vote retracted", map[string]interface{}{
		"vote_id":    voteID,
		"cottage_id": result.Vote.CottageID,
		"user_name":  userName,
	})

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"cottage_id": result.Vote.CottageID,
		"votes":      result.Votes,
	})
}

// Results returns the standings, best cottage first, with the leader,
// the vote totals and the caller's own vote
// GET /api/v1/results
func (ctrl *VoteController) Results(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userName, _ := middleware.GetUserName(c)

	standings, err := ctrl.voteService.StandingsFor(userName)
	if err != nil {
		log.Error("Failed to fetch standings", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "vote")
		return
	}

	c.JSON(http.StatusOK, standings)
}
