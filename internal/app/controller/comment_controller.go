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

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// List returns the comments on a cottage, newest first
// GET /api/v1/cottages/:id/comments
func (ctrl *CommentController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cottageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := ctrl.commentService.ListByCottage(cottageID)
	if err != nil {
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		log.Error("Failed to list comments", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// Create posts a comment on a cottage
// POST /api/v1/cottages/:id/comments
func (ctrl *CommentController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cottageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create comment request", map[string]interface{}{
			"cottage_id": cottageID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A comment needs some text")
		return
	}

	comment, err := ctrl.commentService.Create(userName, cottageID, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrCottageNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Cottage not found")
			return
		}
		if errors.Is(err, service.ErrCommentEmpty) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "That comment has no content once the markup is stripped")
			return
		}
		log.Error("Failed to create comment", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "comment")
		return
	}

	log.Info("Comment created", map[string]interface{}{
		"comment_id": comment.ID,
		"cottage_id": cottageID,
		"user_name":  userName,
	})

	c.JSON(http.StatusCreated, comment)
}

// Update edits a comment, author only
// PUT /api/v1/comments/:id
func (ctrl *CommentController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A comment needs some text")
		return
	}

	comment, err := ctrl.commentService.Update(userName, id, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Comment not found")
			return
		}
		if errors.Is(err, service.ErrNotAllowed) {
			apperrors.Forbidden(c, "Only the author can edit a comment")
			return
		}
		if errors.Is(err, service.ErrCommentEmpty) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "That comment has no content once the markup is stripped")
			return
		}
		log.Error("Failed to update comment", err, map[string]interface{}{
			"comment_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment, author or admin
// DELETE /api/v1/comments/:id
func (ctrl *CommentController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userName, _ := middleware.GetUserName(c)

	err := ctrl.commentService.Delete(userName, id)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Comment not found")
			return
		}
		if errors.Is(err, service.ErrNotAllowed) {
			apperrors.Forbidden(c, "Only the author or an admin can delete a comment")
			return
		}
		log.Error("Failed to delete comment", err, map[string]interface{}{
			"comment_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "comment")
		return
	}

	log.Info("Comment deleted", map[string]interface{}{
		"comment_id": id,
		"user_name":  userName,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
