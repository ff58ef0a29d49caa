package repository

import (
	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"gorm.io/gorm"
)

type CottageRepository interface {
	Create(cottage *model.Cottage) error
	FindAll(sort string) ([]model.Cottage, error)
	FindByID(id uint) (*model.Cottage, error)
	FindByIDWithComments(id uint) (*model.Cottage, error)
	Update(cottage *model.Cottage) error
	Delete(id uint) error
	UpdateSummary(id uint, summary string) error
	RecountVotes() (int64, error)
	BulkCreate(cottages []model.Cottage, batchSize int) error
}

type cottageRepository struct {
	db *gorm.DB
}

func NewCottageRepository(db *gorm.DB) CottageRepository {
	return &cottageRepository{db: db}
}

func (r *cottageRepository) Create(cottage *model.Cottage) error {
	logger.Debug("Creating cottage in database", map[string]interface{}{
		"name":         cottage.Name,
		"submitted_by": cottage.SubmittedBy,
	})

	if err := r.db.Create(cottage).Error; err != nil {
		logger.Error("Failed to create cottage in database", err, map[string]interface{}{
			"name": cottage.Name,
		})
		return err
	}

	logger.Debug("Cottage created in database", map[string]interface{}{
		"cottage_id": cottage.ID,
		"name":       cottage.Name,
	})
	return nil
}

func (r *cottageRepository) FindAll(sort string) ([]model.Cottage, error) {
	logger.Debug("Finding all cottages in database", map[string]interface{}{
		"sort": sort,
	})

	order := "votes DESC, name ASC"
	if sort == "name" {
		order = "name ASC"
	}

	var cottages []model.Cottage
	if err := r.db.Order(order).Find(&cottages).Error; err != nil {
		logger.Error("Failed to find cottages in database", err, nil)
		return nil, err
	}

	logger.Debug("Cottages found in database", map[string]interface{}{
		"count": len(cottages),
	})
	return cottages, nil
}

func (r *cottageRepository) FindByID(id uint) (*model.Cottage, error) {
	logger.Debug("Finding cottage by ID in database", map[string]interface{}{
		"cottage_id": id,
	})

	var cottage model.Cottage
	if err := r.db.First(&cottage, id).Error; err != nil {
		logger.Error("Failed to find cottage by ID in database", err, map[string]interface{}{
			"cottage_id": id,
		})
		return nil, err
	}

	return &cottage, nil
}

func (r *cottageRepository) FindByIDWithComments(id uint) (*model.Cottage, error) {
	logger.Debug("Finding cottage with comments in database", map[string]interface{}{
		"cottage_id": id,
	})

	var cottage model.Cottage
	err := r.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).First(&cottage, id).Error
	if err != nil {
		logger.Error("Failed to find cottage with comments in database", err, map[string]interface{}{
			"cottage_id": id,
		})
		return nil, err
	}

	return &cottage, nil
}

func (r *cottageRepository) Update(cottage *model.Cottage) error {
	logger.Debug("Updating cottage in database", map[string]interface{}{
		"cottage_id": cottage.ID,
		"name":       cottage.Name,
	})

	if err := r.db.Save(cottage).Error; err != nil {
		logger.Error("Failed to update cottage in database", err, map[string]interface{}{
			"cottage_id": cottage.ID,
		})
		return err
	}

	logger.Debug("Cottage updated in database", map[string]interface{}{
		"cottage_id": cottage.ID,
	})
	return nil
}

// Delete removes a cottage with its comments, votes and ratings in one
// transaction so no orphan rows survive.
func (r *cottageRepository) Delete(id uint) error {
	logger.Debug("Deleting cottage from database", map[string]interface{}{
		"cottage_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cottage_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cottage_id = ?", id).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cottage_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cottage{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete cottage from database", err, map[string]interface{}{
			"cottage_id": id,
		})
		return err
	}

	logger.Debug("Cottage deleted from database", map[string]interface{}{
		"cottage_id": id,
	})
	return nil
}

func (r *cottageRepository) UpdateSummary(id uint, summary string) error {
	logger.Debug("Updating cottage review summary in database", map[string]interface{}{
		"cottage_id": id,
	})

	err := r.db.Model(&model.Cottage{}).
		Where("id = ?", id).
		UpdateColumn("ai_review_summary", summary).Error
	if err != nil {
		logger.Error("Failed to update cottage review summary in database", err, map[string]interface{}{
			"cottage_id": id,
		})
		return err
	}
	return nil
}

// BulkCreate inserts cottages in batches, used by the seed command.
func (r *cottageRepository) BulkCreate(cottages []model.Cottage, batchSize int) error {
	logger.Debug("Bulk creating cottages in database", map[string]interface{}{
		"count":      len(cottages),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(cottages, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create cottages in database", err, nil)
		return err
	}
	return nil
}

// RecountVotes rewrites every denormalized vote counter from the votes
// table and returns how many rows changed.
func (r *cottageRepository) RecountVotes() (int64, error) {
	logger.Debug("Recounting cottage vote counters", nil)

	result := r.db.Exec(`
		UPDATE cottages
		SET votes = (SELECT COUNT(*) FROM votes WHERE votes.cottage_id = cottages.id)
		WHERE votes <> (SELECT COUNT(*) FROM votes WHERE votes.cottage_id = cottages.id)`)
	if result.Error != nil {
		logger.Error("Failed to recount cottage vote counters", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Cottage vote counters recounted", map[string]interface{}{
		"corrected": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
