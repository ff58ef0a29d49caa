package repository

import (
	"math"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Upsert(rating *model.Rating) error
	FindByCottageAndUser(cottageID uint, userName string) (*model.Rating, error)
	FindByCottageID(cottageID uint) ([]model.Rating, error)
	DeleteByCottageAndUser(cottageID uint, userName string) error
	Stats(cottageID uint) (*model.RatingStats, error)
	StatsByCottage() (map[uint]model.RatingStats, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert writes the member's rating, replacing any previous score for
// the same cottage. The read-modify-write runs inside a transaction so
// two rapid submissions cannot both insert.
func (r *ratingRepository) Upsert(rating *model.Rating) error {
	logger.Debug("Upserting rating in database", map[string]interface{}{
		"cottage_id": rating.CottageID,
		"user_name":  rating.UserName,
		"rating":     rating.Rating,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Rating
		err := tx.Where("cottage_id = ? AND user_name = ?", rating.CottageID, rating.UserName).
			First(&existing).Error
		if err == nil {
			existing.Rating = rating.Rating
			existing.RatedAt = rating.RatedAt
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*rating = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(rating).Error
	})
	if err != nil {
		logger.Error("Failed to upsert rating in database", err, map[string]interface{}{
			"cottage_id": rating.CottageID,
			"user_name":  rating.UserName,
		})
		return err
	}

	logger.Debug("Rating upserted in database", map[string]interface{}{
		"rating_id":  rating.ID,
		"cottage_id": rating.CottageID,
	})
	return nil
}

func (r *ratingRepository) FindByCottageAndUser(cottageID uint, userName string) (*model.Rating, error) {
	logger.Debug("Finding rating by cottage and user in database", map[string]interface{}{
		"cottage_id": cottageID,
		"user_name":  userName,
	})

	var rating model.Rating
	err := r.db.Where("cottage_id = ? AND user_name = ?", cottageID, userName).
		First(&rating).Error
	if err != nil {
		return nil, err
	}

	return &rating, nil
}

func (r *ratingRepository) FindByCottageID(cottageID uint) ([]model.Rating, error) {
	logger.Debug("Finding ratings by cottage ID in database", map[string]interface{}{
		"cottage_id": cottageID,
	})

	var ratings []model.Rating
	err := r.db.Where("cottage_id = ?", cottageID).
		Order("rated_at DESC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to find ratings by cottage ID in database", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		return nil, err
	}

	return ratings, nil
}

func (r *ratingRepository) DeleteByCottageAndUser(cottageID uint, userName string) error {
	logger.Debug("Deleting rating from database", map[string]interface{}{
		"cottage_id": cottageID,
		"user_name":  userName,
	})

	result := r.db.Where("cottage_id = ? AND user_name = ?", cottageID, userName).
		Delete(&model.Rating{})
	if result.Error != nil {
		logger.Error("Failed to delete rating from database", result.Error, map[string]interface{}{
			"cottage_id": cottageID,
			"user_name":  userName,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

type ratingAggregate struct {
	CottageID uint
	Count     int
	Total     int
}

// Stats aggregates the ratings for one cottage. The average rounds to
// one decimal place and is zero when nobody has rated yet.
func (r *ratingRepository) Stats(cottageID uint) (*model.RatingStats, error) {
	logger.Debug("Aggregating ratings for cottage in database", map[string]interface{}{
		"cottage_id": cottageID,
	})

	var agg ratingAggregate
	err := r.db.Model(&model.Rating{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS total").
		Where("cottage_id = ?", cottageID).
		Scan(&agg).Error
	if err != nil {
		logger.Error("Failed to aggregate ratings in database", err, map[string]interface{}{
			"cottage_id": cottageID,
		})
		return nil, err
	}

	return statsFromAggregate(agg), nil
}

// StatsByCottage aggregates all ratings grouped by cottage in one
// query, for the listing endpoints.
func (r *ratingRepository) StatsByCottage() (map[uint]model.RatingStats, error) {
	logger.Debug("Aggregating ratings for all cottages in database", nil)

	var aggs []ratingAggregate
	err := r.db.Model(&model.Rating{}).
		Select("cottage_id, COUNT(*) AS count, COALESCE(SUM(rating), 0) AS total").
		Group("cottage_id").
		Scan(&aggs).Error
	if err != nil {
		logger.Error("Failed to aggregate ratings by cottage in database", err, nil)
		return nil, err
	}

	stats := make(map[uint]model.RatingStats, len(aggs))
	for _, agg := range aggs {
		stats[agg.CottageID] = *statsFromAggregate(agg)
	}
	return stats, nil
}

func statsFromAggregate(agg ratingAggregate) *model.RatingStats {
	stats := &model.RatingStats{
		Count: agg.Count,
		Total: agg.Total,
	}
	if agg.Count > 0 {
		stats.Average = math.Round(float64(agg.Total)/float64(agg.Count)*10) / 10
	}
	return stats
}
