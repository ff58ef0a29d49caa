package repository

import (
	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"gorm.io/gorm"
)

type VoteRepository interface {
	Cast(vote *model.Vote) (int, error)
	FindByID(id uint) (*model.Vote, error)
	FindByUserName(userName string) (*model.Vote, error)
	FindByCottageID(cottageID uint) ([]model.Vote, error)
	FindAll() ([]model.Vote, error)
	CountByCottageID(cottageID uint) (int, error)
	Delete(id uint) (int, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Cast inserts the vote and bumps the cottage counter in the same
// transaction, returning the new count. The unique index on user_name
// rejects a second vote at the database level.
func (r *voteRepository) Cast(vote *model.Vote) (int, error) {
	logger.Debug("Casting vote in database", map[string]interface{}{
		"cottage_id": vote.CottageID,
		"user_name":  vote.UserName,
	})

	var votes int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Cottage{}).
			Where("id = ?", vote.CottageID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&model.Cottage{}).
			Select("votes").
			Where("id = ?", vote.CottageID).
			Scan(&votes).Error
	})
	if err != nil {
		logger.Error("Failed to cast vote in database", err, map[string]interface{}{
			"cottage_id": vote.CottageID,
			"user_name":  vote.UserName,
		})
		return 0, err
	}

	logger.Debug("Vote cast in database", map[string]interface{}{
		"vote_id":    vote.ID,
		"cottage_id": vote.CottageID,
		"votes":      votes,
	})
	return votes, nil
}

func (r *voteRepository) FindAll() ([]model.Vote, error) {
	logger.Debug("Finding all votes in database", nil)

	var votes []model.Vote
	if err := r.db.Order("cottage_id ASC, voted_at ASC").Find(&votes).Error; err != nil {
		logger.Error("Failed to find votes in database", err, nil)
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) FindByID(id uint) (*model.Vote, error) {
	logger.Debug("Finding vote by ID in database", map[string]interface{}{
		"vote_id": id,
	})

	var vote model.Vote
	if err := r.db.First(&vote, id).Error; err != nil {
		logger.Error("Failed to find vote by ID in database", err, map[string]interface{}{
			"vote_id": id,
		})
		return nil, err
	}

	return &vote, nil
}

func (r *voteRepository) FindByUserName(userName string) (*model.Vote, error) {
	logger.Debug("Finding vote by user name in database", map[string]interface{}{
		"user_name": userName,
	})

	var vote model.Vote
	if err := r.db.Where("user_name = ?", userName).First(&vote).Error; err != nil {
		return nil, err
	}

	return &vote, nil
}

func (r *voteRepository) FindByCottageID(cottageID uint) ([]model.Vote, error) {
	logger.Debug("Finding votes by cottage ID in database", map[string]interface{}{
		"cottage_id": cottageID,
	})

	var votes []model.Vote
	err := r.db.Where("cottage_id = ?", cottageID).
		Order("voted_at DESC").
		Find(&votes).Error
	if err != nil {
		logger.Error("Failed to find votes by cottage ID in database", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) CountByCottageID(cottageID uint) (int, error) {
	var count int64
	err := r.db.Model(&model.Vote{}).
		Where("cottage_id = ?", cottageID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count votes by cottage ID in database", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		return 0, err
	}
	return int(count), nil
}

// Delete removes the vote and decrements the counter, clamped at zero
// so a drifted counter can never go negative. Returns the new count.
func (r *voteRepository) Delete(id uint) (int, error) {
	logger.Debug("Deleting vote from database", map[string]interface{}{
		"vote_id": id,
	})

	var votes int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var vote model.Vote
		if err := tx.First(&vote, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Vote{}, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Cottage{}).
			Where("id = ?", vote.CottageID).
			UpdateColumn("votes", gorm.Expr("CASE WHEN votes > 0 THEN votes - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
		return tx.Model(&model.Cottage{}).
			Select("votes").
			Where("id = ?", vote.CottageID).
			Scan(&votes).Error
	})
	if err != nil {
		logger.Error("Failed to delete vote from database", err, map[string]interface{}{
			"vote_id": id,
		})
		return 0, err
	}

	logger.Debug("Vote deleted from database", map[string]interface{}{
		"vote_id": id,
		"votes":   votes,
	})
	return votes, nil
}
