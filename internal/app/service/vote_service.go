package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/authz"
	apperrors "github.com/PeterSayer/CottageChooser/internal/errors"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
)

var (
	// ErrAlreadyVoted means the member already voted for this cottage.
	// The current count accompanies the error in CastResult.
	ErrAlreadyVoted = errors.New("already voted for this cottage")

	ErrVoteNotFound = errors.New("vote not found")
)

// VoteElsewhereError means the member's single vote is parked on a
// different cottage. The client uses the IDs to offer a retraction.
type VoteElsewhereError struct {
	CottageID uint
	VoteID    uint
}

func (e *VoteElsewhereError) Error() string {
	return fmt.Sprintf("already voted for cottage %d (vote %d)", e.CottageID, e.VoteID)
}

// CastResult reports the outcome of a vote attempt.
type CastResult struct {
	Vote  *model.Vote
	Votes int
}

// Voter identifies who voted for a cottage and when.
type Voter struct {
	UserName string `json:"user_name"`
	VotedAt  string `json:"voted_at"`
}

// ResultRow is one line of the standings.
type ResultRow struct {
	CottageID uint    `json:"cottage_id"`
	Name      string  `json:"name"`
	Votes     int     `json:"votes"`
	Voters    []Voter `json:"voters"`
}

// VoteRef points a member at their current vote so the client can
// offer to retract it.
type VoteRef struct {
	VoteID    uint `json:"vote_id"`
	CottageID uint `json:"cottage_id"`
}

// Standings is the full results view: the leader, the totals, the
// caller's own vote, and one row per cottage.
type Standings struct {
	Top        *string     `json:"top"`
	TopVotes   int         `json:"top_votes"`
	TotalVotes int         `json:"total_votes"`
	MyVote     *VoteRef    `json:"my_vote"`
	Results    []ResultRow `json:"results"`
}

// ResultNotifier pushes fresh standings to connected clients whenever
// a vote lands or is retracted.
type ResultNotifier interface {
	BroadcastResults(rows []ResultRow)
}

type VoteService interface {
	Cast(userName string, cottageID uint) (*CastResult, error)
	Retract(actor string, voteID uint) (*CastResult, error)
	Results() ([]ResultRow, error)
	StandingsFor(userName string) (*Standings, error)
}

type voteService struct {
	voteRepo    repository.VoteRepository
	cottageRepo repository.CottageRepository
	policy      *authz.Policy
	notifier    ResultNotifier
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	cottageRepo repository.CottageRepository,
	policy *authz.Policy,
	notifier ResultNotifier,
) VoteService {
	return &voteService{
		voteRepo:    voteRepo,
		cottageRepo: cottageRepo,
		policy:      policy,
		notifier:    notifier,
	}
}

// Cast records the member's vote. Each member gets exactly one vote
// across all cottages: a repeat on the same cottage returns
// ErrAlreadyVoted, a vote parked elsewhere returns VoteElsewhereError.
func (s *voteService) Cast(userName string, cottageID uint) (*CastResult, error) {
	logger.Info("Casting vote", map[string]interface{}{
		"cottage_id": cottageID,
		"user_name":  userName,
	})

	if _, err := s.cottageRepo.FindByID(cottageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot vote: cottage not found", map[string]interface{}{
				"cottage_id": cottageID,
			})
			return nil, ErrCottageNotFound
		}
		return nil, err
	}

	if result, err := s.checkExistingVote(userName, cottageID); result != nil || err != nil {
		return result, err
	}

	vote := &model.Vote{
		CottageID: cottageID,
		UserName:  userName,
		VotedAt:   model.Timestamp(),
	}

	votes, err := s.voteRepo.Cast(vote)
	if err != nil {
		// A concurrent request can win the race between the check above
		// and the insert. The unique index catches it; re-read to report
		// the accurate outcome.
		if apperrors.IsDuplicateKey(err) {
			logger.Warn("Vote insert lost race, re-reading existing vote", map[string]interface{}{
				"cottage_id": cottageID,
				"user_name":  userName,
			})
			if result, err := s.checkExistingVote(userName, cottageID); result != nil || err != nil {
				return result, err
			}
		}
		logger.Error("Failed to cast vote", err, map[string]interface{}{
			"cottage_id": cottageID,
			"user_name":  userName,
		})
		return nil, err
	}

	logger.Info("Vote cast successfully", map[string]interface{}{
		"vote_id":    vote.ID,
		"cottage_id": cottageID,
		"votes":      votes,
	})

	s.broadcast()
	return &CastResult{Vote: vote, Votes: votes}, nil
}

// checkExistingVote maps the member's current vote, if any, onto the
// vote contract errors. A (nil, nil) return means no vote exists yet.
func (s *voteService) checkExistingVote(userName string, cottageID uint) (*CastResult, error) {
	existing, err := s.voteRepo.FindByUserName(userName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if existing.CottageID == cottageID {
		votes, err := s.voteRepo.CountByCottageID(cottageID)
		if err != nil {
			return nil, err
		}
		return &CastResult{Vote: existing, Votes: votes}, ErrAlreadyVoted
	}

	return nil, &VoteElsewhereError{
		CottageID: existing.CottageID,
		VoteID:    existing.ID,
	}
}

// Retract removes a vote. Members retract their own; admins can
// retract anyone's.
func (s *voteService) Retract(actor string, voteID uint) (*CastResult, error) {
	logger.Info("Retracting vote", map[string]interface{}{
		"vote_id": voteID,
		"actor":   actor,
	})

	vote, err := s.voteRepo.FindByID(voteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}

	if !s.policy.Can(actor, authz.VoteDelete, vote.UserName) {
		logger.Warn("Vote retraction denied", map[string]interface{}{
			"vote_id": voteID,
			"actor":   actor,
			"voter":   vote.UserName,
		})
		return nil, ErrNotAllowed
	}

	votes, err := s.voteRepo.Delete(voteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoteNotFound
		}
		logger.Error("Failed to retract vote", err, map[string]interface{}{
			"vote_id": voteID,
		})
		return nil, err
	}

	logger.Info("Vote retracted successfully", map[string]interface{}{
		"vote_id":    voteID,
		"cottage_id": vote.CottageID,
		"votes":      votes,
	})

	s.broadcast()
	return &CastResult{Vote: vote, Votes: votes}, nil
}

// Results returns the standings, best cottage first, with the voter
// list for each cottage.
func (s *voteService) Results() ([]ResultRow, error) {
	cottages, err := s.cottageRepo.FindAll("")
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.FindAll()
	if err != nil {
		return nil, err
	}

	votersByCottage := make(map[uint][]Voter, len(cottages))
	for _, vote := range votes {
		votersByCottage[vote.CottageID] = append(votersByCottage[vote.CottageID], Voter{
			UserName: vote.UserName,
			VotedAt:  vote.VotedAt,
		})
	}

	rows := make([]ResultRow, 0, len(cottages))
	for _, cottage := range cottages {
		rows = append(rows, ResultRow{
			CottageID: cottage.ID,
			Name:      cottage.Name,
			Votes:     cottage.Votes,
			Voters:    votersByCottage[cottage.ID],
		})
	}
	return rows, nil
}

// StandingsFor builds the full results view for one member, including
// where their own vote currently sits.
func (s *voteService) StandingsFor(userName string) (*Standings, error) {
	rows, err := s.Results()
	if err != nil {
		return nil, err
	}

	standings := &Standings{Results: rows}
	for _, row := range rows {
		standings.TotalVotes += row.Votes
	}
	if len(rows) > 0 && rows[0].Votes > 0 {
		standings.Top = &rows[0].Name
		standings.TopVotes = rows[0].Votes
	}

	existing, err := s.voteRepo.FindByUserName(userName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		standings.MyVote = &VoteRef{VoteID: existing.ID, CottageID: existing.CottageID}
	}

	return standings, nil
}

func (s *voteService) broadcast() {
	if s.notifier == nil {
		return
	}
	rows, err := s.Results()
	if err != nil {
		logger.Error("Failed to build standings for broadcast", err, nil)
		return
	}
	s.notifier.BroadcastResults(rows)
}
