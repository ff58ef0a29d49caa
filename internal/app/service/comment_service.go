package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"github.com/PeterSayer/CottageChooser/pkg/sanitize"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment has no content after sanitization")
)

type CommentService interface {
	Create(author string, cottageID uint, text string) (*model.Comment, error)
	ListByCottage(cottageID uint) ([]model.Comment, error)
	Update(actor string, id uint, text string) (*model.Comment, error)
	Delete(actor string, id uint) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	cottageRepo repository.CottageRepository
	policy      *authz.Policy
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	cottageRepo repository.CottageRepository,
	policy *authz.Policy,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		cottageRepo: cottageRepo,
		policy:      policy,
	}
}

func (s *commentService) Create(author string, cottageID uint, text string) (*model.Comment, error) {
	logger.Info("Creating comment", map[string]interface{}{
		"cottage_id": cottageID,
		"author":     author,
	})

	if _, err := s.cottageRepo.FindByID(cottageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot comment: cottage not found", map[string]interface{}{
				"cottage_id": cottageID,
			})
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	clean := sanitize.RichText(text)
	if clean == "" {
		logger.Warn("Comment rejected: empty after sanitization", map[string]interface{}{
			"cottage_id": cottageID,
			"author":     author,
		})
		return nil, ErrCommentEmpty
	}

	comment := &model.Comment{
		CottageID: cottageID,
		Author:    author,
		Text:      clean,
		CreatedAt: model.Timestamp(),
	}

	if err := s.commentRepo.Create(comment); err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		return nil, err
	}

	logger.Info("Comment created successfully", map[string]interface{}{
		"comment_id": comment.ID,
	})
	return comment, nil
}

func (s *commentService) ListByCottage(cottageID uint) ([]model.Comment, error) {
	logger.Debug("Listing comments for cottage", map[string]interface{}{
		"cottage_id": cottageID,
	})

	if _, err := s.cottageRepo.FindByID(cottageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	return s.commentRepo.FindByCottageID(cottageID)
}

func (s *commentService) Update(actor string, id uint, text string) (*model.Comment, error) {
	logger.Info("Updating comment", map[string]interface{}{
		"comment_id": id,
		"actor":      actor,
	})

	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if !s.policy.Can(actor, authz.CommentEdit, comment.Author) {
		logger.Warn("Comment update denied", map[string]interface{}{
			"comment_id": id,
			"actor":      actor,
			"author":     comment.Author,
		})
		return nil, ErrNotAllowed
	}

	clean := sanitize.RichText(text)
	if clean == "" {
		return nil, ErrCommentEmpty
	}

	comment.Text = clean
	if err := s.commentRepo.Update(comment); err != nil {
		logger.Error("Failed to update comment", err, map[string]interface{}{
			"comment_id": id,
		})
		return nil, err
	}

	logger.Info("Comment updated successfully", map[string]interface{}{
		"comment_id": id,
	})
	return comment, nil
}

func (s *commentService) Delete(actor string, id uint) error {
	logger.Info("Deleting comment", map[string]interface{}{
		"comment_id": id,
		"actor":      actor,
	})

	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if !s.policy.Can(actor, authz.CommentDelete, comment.Author) {
		logger.Warn("Comment deletion denied", map[string]interface{}{
			"comment_id": id,
			"actor":      actor,
			"author":     comment.Author,
		})
		return ErrNotAllowed
	}

	if err := s.commentRepo.Delete(id); err != nil {
		logger.Error("Failed to delete comment", err, map[string]interface{}{
			"comment_id": id,
		})
		return err
	}

	logger.Info("Comment deleted successfully", map[string]interface{}{
		"comment_id": id,
	})
	return nil
}
