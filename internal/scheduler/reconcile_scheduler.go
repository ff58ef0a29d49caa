package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/app/service"
	"github.com/PeterSayer/CottageChooser/pkg/logger"
)

// ReconcileScheduler periodically rebuilds the denormalized vote
// counters from the votes table, repairing any drift left behind by
// crashes between a vote write and its counter update.
type ReconcileScheduler struct {
	cron        *cron.Cron
	cottageRepo repository.CottageRepository
	voteService service.VoteService
	notifier    service.ResultNotifier
	spec        string
}

func NewReconcileScheduler(
	cottageRepo repository.CottageRepository,
	voteService service.VoteService,
	notifier service.ResultNotifier,
	spec string,
) *ReconcileScheduler {
	return &ReconcileScheduler{
		cron:        cron.New(),
		cottageRepo: cottageRepo,
		voteService: voteService,
		notifier:    notifier,
		spec:        spec,
	}
}

func (s *ReconcileScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		logger.Error("Failed to add cron job for vote reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Vote reconciliation scheduler started", map[string]interface{}{
		"spec": s.spec,
	})

	return nil
}

func (s *ReconcileScheduler) runOnce() {
	corrected, err := s.cottageRepo.RecountVotes()
	if err != nil {
		logger.Error("Vote reconciliation failed", err)
		return
	}

	if corrected == 0 {
		logger.Debug("Vote counters already consistent", nil)
		return
	}

	logger.Warn("Vote counters corrected", map[string]interface{}{
		"cottages": corrected,
	})

	// counters moved, push fresh standings to live clients
	if s.notifier != nil {
		rows, err := s.voteService.Results()
		if err != nil {
			logger.Error("Failed to fetch standings after reconciliation", err)
			return
		}
		s.notifier.BroadcastResults(rows)
	}
}

func (s *ReconcileScheduler) Stop() {
	logger.Info("Stopping vote reconciliation scheduler", nil)
	s.cron.Stop()
}
