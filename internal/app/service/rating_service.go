package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 10")
	ErrRatingNotFound   = errors.New("rating not found")
)

// RatingResult is the member's rating together with the cottage
// aggregates after the change.
type RatingResult struct {
	Rating *int
	Stats  model.RatingStats
}

type RatingService interface {
	Submit(userName string, cottageID uint, score int) (*RatingResult, error)
	Remove(userName string, cottageID uint) (*RatingResult, error)
	Stats(cottageID uint) (*model.RatingStats, error)
	ListForCottage(actor string, cottageID uint) ([]model.Rating, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	cottageRepo repository.CottageRepository
	policy      *authz.Policy
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	cottageRepo repository.CottageRepository,
	policy *authz.Policy,
) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		cottageRepo: cottageRepo,
		policy:      policy,
	}
}

// Submit stores the member's score, replacing any earlier one.
func (s *ratingService) Submit(userName string, cottageID uint, score int) (*RatingResult, error) {
	logger.Info("Submitting rating", map[string]interface{}{
		"cottage_id": cottageID,
		"user_name":  userName,
		"rating":     score,
	})

	if score < 0 || score > 10 {
		logger.Warn("Rating rejected: out of range", map[string]interface{}{
			"cottage_id": cottageID,
			"rating":     score,
		})
		return nil, ErrRatingOutOfRange
	}

	if _, err := s.cottageRepo.FindByID(cottageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	rating := &model.Rating{
		CottageID: cottageID,
		UserName:  userName,
		Rating:    score,
		RatedAt:   model.Timestamp(),
	}

	if err := s.ratingRepo.Upsert(rating); err != nil {
		// A concurrent first submission can win the race between the
		// upsert's existence check and its insert. The composite unique
		// index catches it; a second pass finds the row and updates it.
		if apperrors.IsDuplicateKey(err) {
			logger.Warn("Rating insert lost race, retrying as update", map[string]interface{}{
				"cottage_id": cottageID,
				"user_name":  userName,
			})
			err = s.ratingRepo.Upsert(rating)
		}
		if err != nil {
			logger.Error("Failed to submit rating", err, map[string]interface{}{
				"cottage_id": cottageID,
				"user_name":  userName,
			})
			return nil, err
		}
	}

	stats, err := s.ratingRepo.Stats(cottageID)
	if err != nil {
		return nil, err
	}

	logger.Info("Rating submitted successfully", map[string]interface{}{
		"rating_id":  rating.ID,
		"cottage_id": cottageID,
	})
	return &RatingResult{Rating: &rating.Rating, Stats: *stats}, nil
}

// Remove deletes the member's own rating for a cottage.
func (s *ratingService) Remove(userName string, cottageID uint) (*RatingResult, error) {
	logger.Info("Removing rating", map[string]interface{}{
		"cottage_id": cottageID,
		"user_name":  userName,
	})

	if _, err := s.cottageRepo.FindByID(cottageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	if err := s.ratingRepo.DeleteByCottageAndUser(cottageID, userName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		logger.Error("Failed to remove rating", err, map[string]interface{}{
			"cottage_id": cottageID,
			"user_name":  userName,
		})
		return nil, err
	}

	stats, err := s.ratingRepo.Stats(cottageID)
	if err != nil {
		return nil, err
	}

	logger.Info("Rating removed successfully", map[string]interface{}{
		"cottage_id": cottageID,
	})
	return &RatingResult{Stats: *stats}, nil
}

func (s *ratingService) Stats(cottageID uint) (*model.RatingStats, error) {
	if _, err := s.cottageRepo.FindByID(cottageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCottageNotFound
		}
		return nil, err
	}
	return s.ratingRepo.Stats(cottageID)
}

// ListForCottage returns individual rating rows. Scores are anonymous
// to regular members, so this surface is admin-only.
func (s *ratingService) ListForCottage(actor string, cottageID uint) ([]model.Rating, error) {
	logger.Info("Listing individual ratings", map[string]interface{}{
		"cottage_id": cottageID,
		"actor":      actor,
	})

	if !s.policy.Can(actor, authz.RatingsList, "") {
		logger.Warn("Individual ratings listing denied", map[string]interface{}{
			"cottage_id": cottageID,
			"actor":      actor,
		})
		return nil, ErrNotAllowed
	}

	if _, err := s.cottageRepo.FindByID(cottageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	return s.ratingRepo.FindByCottageID(cottageID)
}
