package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PeterSayer/CottageChooser/internal/app/service"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/internal/middleware"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

type JoinRequest struct {
	UserName  string `json:"user_name" binding:"required,max=100"`
	GroupCode string `json:"group_code" binding:"required"`
}

// Join admits a member who knows the group code
// POST /api/v1/session/join
func (ctrl *SessionController) Join(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid join request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Both a display name and the group code are required")
		return
	}

	session, err := ctrl.sessionService.Join(req.UserName, req.GroupCode)
	if err != nil {
		if errors.Is(err, service.ErrBadGroupCode) {
			log.Warn("Join rejected: wrong group code", map[string]interface{}{
				"user_name": req.UserName,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.SessionBadGroupCode, "That group code is not right")
			return
		}
		if errors.Is(err, service.ErrBadUserName) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "That display name will not work")
			return
		}
		log.Error("Failed to join group", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "session")
		return
	}

	log.Info("Member joined", map[string]interface{}{
		"user_name": session.UserName,
		"is_admin":  session.IsAdmin,
	})

	c.JSON(http.StatusOK, session)
}

// Me returns the current session identity
// GET /api/v1/session/me
func (ctrl *SessionController) Me(c *gin.Context) {
	userName, _ := middleware.GetUserName(c)

	c.JSON(http.StatusOK, gin.H{
		"user_name": userName,
		"is_admin":  ctrl.sessionService.IsAdmin(userName),
	})
}

// Leave revokes the current session token
// POST /api/v1/session/leave
func (ctrl *SessionController) Leave(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tok, _ := middleware.GetSessionToken(c)
	if err := ctrl.sessionService.Leave(c.Request.Context(), tok); err != nil {
		log.Error("Failed to revoke session", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "session")
		return
	}

	userName, _ := middleware.GetUserName(c)
	log.Info("Member left", map[string]interface{}{
		"user_name": userName,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "You have left the group",
	})
}
