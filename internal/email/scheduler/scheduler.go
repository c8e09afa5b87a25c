package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"triage-backend/internal/email/usecase"
	"triage-backend/pkg/lock"

	"github.com/sirupsen/logrus"
)

// LinkedUserLister lists the users whose mailboxes can be synced
type LinkedUserLister interface {
	LinkedUserIDs(ctx context.Context) ([]string, error)
}

// SyncScheduler periodically syncs every linked mailbox
type SyncScheduler struct {
	syncUsecase usecase.SyncUsecase
	users       LinkedUserLister
	locker      lock.Locker
	interval    time.Duration
	lockTTL     time.Duration
	stopChan    chan struct{}
	stopOnce    sync.Once
	log         *logrus.Entry
}

// NewSyncScheduler creates a new scheduler. A non-positive interval disables it.
func NewSyncScheduler(
	syncUsecase usecase.SyncUsecase,
	users LinkedUserLister,
	locker lock.Locker,
	interval, lockTTL time.Duration,
) *SyncScheduler {
	return &SyncScheduler{
		syncUsecase: syncUsecase,
		users:       users,
		locker:      locker,
		interval:    interval,
		lockTTL:     lockTTL,
		stopChan:    make(chan struct{}),
		log:         logrus.WithField("component", "sync-scheduler"),
	}
}

// LockKey is the per-user key shared with on-demand syncs
func LockKey(userID string) string {
	return "sync:" + userID
}

// Start begins the scheduler loop
func (s *SyncScheduler) Start() {
	if s.interval <= 0 {
		s.log.Info("SYNC_INTERVAL not set, scheduled sync disabled")
		return
	}

	s.log.WithField("interval", s.interval.String()).Info("starting scheduled sync")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stopChan:
				s.log.Info("scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// RunOnce syncs every linked user in turn and returns the total created.
// Users with a sync already in flight are skipped.
func (s *SyncScheduler) RunOnce(ctx context.Context) int {
	userIDs, err := s.users.LinkedUserIDs(ctx)
	if err != nil {
		s.log.WithError(err).Error("listing linked users failed")
		return 0
	}

	total := 0
	for _, userID := range userIDs {
		log := s.log.WithField("user_id", userID)

		release, err := s.locker.Acquire(ctx, LockKey(userID), s.lockTTL)
		if errors.Is(err, lock.ErrLocked) {
			log.Debug("sync already running, skipping")
			continue
		}
		if err != nil {
			log.WithError(err).Warn("could not take sync lock")
			continue
		}

		created, err := s.syncUsecase.Sync(ctx, userID)
		release()
		if err != nil {
			log.WithError(err).Warn("scheduled sync failed")
			continue
		}
		total += created
	}
	return total
}
