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
	ErrCottageNotFound = errors.New("cottage not found")
	ErrNotAllowed      = errors.New("operation not allowed")
)

// CottageView is a cottage with its rating aggregates attached for the
// listing endpoints.
type CottageView struct {
	model.Cottage
	RatingStats model.RatingStats `json:"rating_stats"`
	// Voters lists who voted for this cottage, newest first. Populated
	// on the detail read only.
	Voters []Voter `json:"voters,omitempty"`
	// UserVoted marks the cottage the requesting member voted for.
	UserVoted bool `json:"user_voted"`
	// UserRating is the requesting member's score, nil when unrated.
	UserRating *int `json:"user_rating,omitempty"`
}

type CottageService interface {
	Create(userName string, req *model.CreateCottageRequest) (*model.Cottage, error)
	List(userName, sort string) ([]CottageView, error)
	Get(id uint, userName string) (*CottageView, error)
	Update(actor string, id uint, req *model.UpdateCottageRequest) (*model.Cottage, error)
	Delete(actor string, id uint) error
}

type cottageService struct {
	cottageRepo repository.CottageRepository
	ratingRepo  repository.RatingRepository
	voteRepo    repository.VoteRepository
	policy      *authz.Policy
}

func NewCottageService(
	cottageRepo repository.CottageRepository,
	ratingRepo repository.RatingRepository,
	voteRepo repository.VoteRepository,
	policy *authz.Policy,
) CottageService {
	return &cottageService{
		cottageRepo: cottageRepo,
		ratingRepo:  ratingRepo,
		voteRepo:    voteRepo,
		policy:      policy,
	}
}

func (s *cottageService) Create(userName string, req *model.CreateCottageRequest) (*model.Cottage, error) {
	logger.Info("Creating cottage", map[string]interface{}{
		"name":      req.Name,
		"user_name": userName,
	})

	cottage := &model.Cottage{
		Name:         req.Name,
		Location:     req.Location,
		Price:        req.Price,
		Beds:         req.Beds,
		DogsAllowed:  req.DogsAllowed,
		Image:        req.Image,
		URL:          req.URL,
		Description:  sanitize.RichText(req.Description),
		SubmittedBy:  userName,
		HotTub:       req.HotTub,
		SecureGarden: req.SecureGarden,
		EVCharging:   req.EVCharging,
		Parking:      req.Parking,
		LogBurner:    req.LogBurner,
		HighChair:    req.HighChair,
		Cot:          req.Cot,
	}

	if err := s.cottageRepo.Create(cottage); err != nil {
		logger.Error("Failed to create cottage", err, map[string]interface{}{
			"name": req.Name,
		})
		return nil, err
	}

	logger.Info("Cottage created successfully", map[string]interface{}{
		"cottage_id": cottage.ID,
	})
	return cottage, nil
}

func (s *cottageService) List(userName, sort string) ([]CottageView, error) {
	logger.Debug("Listing cottages", map[string]interface{}{
		"sort":      sort,
		"user_name": userName,
	})

	cottages, err := s.cottageRepo.FindAll(sort)
	if err != nil {
		return nil, err
	}

	stats, err := s.ratingRepo.StatsByCottage()
	if err != nil {
		return nil, err
	}

	var votedCottageID uint
	if userName != "" {
		if vote, err := s.voteRepo.FindByUserName(userName); err == nil {
			votedCottageID = vote.CottageID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	views := make([]CottageView, 0, len(cottages))
	for _, cottage := range cottages {
		view := CottageView{
			Cottage:     cottage,
			RatingStats: stats[cottage.ID],
			UserVoted:   votedCottageID != 0 && cottage.ID == votedCottageID,
		}
		if userName != "" {
			if rating, err := s.ratingRepo.FindByCottageAndUser(cottage.ID, userName); err == nil {
				score := rating.Rating
				view.UserRating = &score
			}
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *cottageService) Get(id uint, userName string) (*CottageView, error) {
	logger.Debug("Fetching cottage", map[string]interface{}{
		"cottage_id": id,
	})

	cottage, err := s.cottageRepo.FindByIDWithComments(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	stats, err := s.ratingRepo.Stats(id)
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.FindByCottageID(id)
	if err != nil {
		return nil, err
	}
	voters := make([]Voter, 0, len(votes))
	for _, vote := range votes {
		voters = append(voters, Voter{UserName: vote.UserName, VotedAt: vote.VotedAt})
	}

	view := &CottageView{
		Cottage:     *cottage,
		RatingStats: *stats,
		Voters:      voters,
	}
	if userName != "" {
		if vote, err := s.voteRepo.FindByUserName(userName); err == nil && vote.CottageID == id {
			view.UserVoted = true
		}
		if rating, err := s.ratingRepo.FindByCottageAndUser(id, userName); err == nil {
			score := rating.Rating
			view.UserRating = &score
		}
	}

	return view, nil
}

func (s *cottageService) Update(actor string, id uint, req *model.UpdateCottageRequest) (*model.Cottage, error) {
	logger.Info("Updating cottage", map[string]interface{}{
		"cottage_id": id,
		"actor":      actor,
	})

	cottage, err := s.cottageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	if !s.policy.Can(actor, authz.CottageEdit, cottage.SubmittedBy) {
		logger.Warn("Cottage update denied", map[string]interface{}{
			"cottage_id": id,
			"actor":      actor,
			"owner":      cottage.SubmittedBy,
		})
		return nil, ErrNotAllowed
	}

	if req.Name != nil {
		cottage.Name = *req.Name
	}
	if req.Location != nil {
		cottage.Location = *req.Location
	}
	if req.Price != nil {
		cottage.Price = *req.Price
	}
	if req.Beds != nil {
		cottage.Beds = *req.Beds
	}
	if req.DogsAllowed != nil {
		cottage.DogsAllowed = *req.DogsAllowed
	}
	if req.Image != nil {
		cottage.Image = *req.Image
	}
	if req.URL != nil {
		cottage.URL = *req.URL
	}
	if req.Description != nil {
		cottage.Description = sanitize.RichText(*req.Description)
	}
	if req.HotTub != nil {
		cottage.HotTub = *req.HotTub
	}
	if req.SecureGarden != nil {
		cottage.SecureGarden = *req.SecureGarden
	}
	if req.EVCharging != nil {
		cottage.EVCharging = *req.EVCharging
	}
	if req.Parking != nil {
		cottage.Parking = *req.Parking
	}
	if req.LogBurner != nil {
		cottage.LogBurner = *req.LogBurner
	}
	if req.HighChair != nil {
		cottage.HighChair = *req.HighChair
	}
	if req.Cot != nil {
		cottage.Cot = *req.Cot
	}

	if err := s.cottageRepo.Update(cottage); err != nil {
		logger.Error("Failed to update cottage", err, map[string]interface{}{
			"cottage_id": id,
		})
		return nil, err
	}

	logger.Info("Cottage updated successfully", map[string]interface{}{
		"cottage_id": id,
	})
	return cottage, nil
}

func (s *cottageService) Delete(actor string, id uint) error {
	logger.Info("Deleting cottage", map[string]interface{}{
		"cottage_id": id,
		"actor":      actor,
	})

	cottage, err := s.cottageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCottageNotFound
		}
		return err
	}

	if !s.policy.Can(actor, authz.CottageDelete, cottage.SubmittedBy) {
		logger.Warn("Cottage deletion denied", map[string]interface{}{
			"cottage_id": id,
			"actor":      actor,
			"owner":      cottage.SubmittedBy,
		})
		return ErrNotAllowed
	}

	if err := s.cottageRepo.Delete(id); err != nil {
		logger.Error("Failed to delete cottage", err, map[string]interface{}{
			"cottage_id": id,
		})
		return err
	}

	logger.Info("Cottage deleted successfully", map[string]interface{}{
		"cottage_id": id,
	})
	return nil
}
