package repository

import (
	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id uint) (*model.Comment, error)
	FindByCottageID(cottageID uint) ([]model.Comment, error)
	FindAll() ([]model.Comment, error)
	Update(comment *model.Comment) error
	Delete(id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"cottage_id": comment.CottageID,
		"author":     comment.Author,
	})

	if err := r.db.Create(comment).Error; err != nil {
		logger.Error("Failed to create comment in database", err, map[string]interface{}{
			"cottage_id": comment.CottageID,
		})
		return err
	}

	logger.Debug("Comment created in database", map[string]interface{}{
		"comment_id": comment.ID,
		"cottage_id": comment.CottageID,
	})
	return nil
}

func (r *commentRepository) FindByID(id uint) (*model.Comment, error) {
	logger.Debug("Finding comment by ID in database", map[string]interface{}{
		"comment_id": id,
	})

	var comment model.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		logger.Error("Failed to find comment by ID in database", err, map[string]interface{}{
			"comment_id": id,
		})
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepository) FindByCottageID(cottageID uint) ([]model.Comment, error) {
	logger.Debug("Finding comments by cottage ID in database", map[string]interface{}{
		"cottage_id": cottageID,
	})

	var comments []model.Comment
	err := r.db.Where("cottage_id = ?", cottageID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find comments by cottage ID in database", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		return nil, err
	}

	logger.Debug("Comments found by cottage ID in database", map[string]interface{}{
		"cottage_id": cottageID,
		"count":      len(comments),
	})
	return comments, nil
}

func (r *commentRepository) FindAll() ([]model.Comment, error) {
	logger.Debug("Finding all comments in database", nil)

	var comments []model.Comment
	if err := r.db.Order("cottage_id ASC, created_at DESC").Find(&comments).Error; err != nil {
		logger.Error("Failed to find all comments in database", err, nil)
		return nil, err
	}

	return comments, nil
}

func (r *commentRepository) Update(comment *model.Comment) error {
	logger.Debug("Updating comment in database", map[string]interface{}{
		"comment_id": comment.ID,
	})

	if err := r.db.Save(comment).Error; err != nil {
		logger.Error("Failed to update comment in database", err, map[string]interface{}{
			"comment_id": comment.ID,
		})
		return err
	}

	return nil
}

func (r *commentRepository) Delete(id uint) error {
	logger.Debug("Deleting comment from database", map[string]interface{}{
		"comment_id": id,
	})

	if err := r.db.Delete(&model.Comment{}, id).Error; err != nil {
		logger.Error("Failed to delete comment from database", err, map[string]interface{}{
			"comment_id": id,
		})
		return err
	}

	return nil
}
