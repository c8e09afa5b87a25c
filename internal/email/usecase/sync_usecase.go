package usecase

import (
	"context"
	"fmt"
	"time"

	emaildomain "triage-backend/internal/email/domain"
	"triage-backend/internal/email/repository"
	itemdomain "triage-backend/internal/item/domain"
	itemrepo "triage-backend/internal/item/repository"
	"triage-backend/pkg/logger"

	"github.com/sirupsen/logrus"
)

const DefaultBatchSize = 50

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	tokens     AccessTokenProvider
	fetcher    MailFetcher
	classifier LaneClassifier
	itemRepo   itemrepo.ItemRepository
	stateRepo  repository.SyncStateRepository
	batchSize  int
	now        func() time.Time
	log        *logrus.Entry
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(
	tokens AccessTokenProvider,
	fetcher MailFetcher,
	classifier LaneClassifier,
	itemRepo itemrepo.ItemRepository,
	stateRepo repository.SyncStateRepository,
	batchSize int,
) SyncUsecase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &syncUsecase{
		tokens:     tokens,
		fetcher:    fetcher,
		classifier: classifier,
		itemRepo:   itemRepo,
		stateRepo:  stateRepo,
		batchSize:  batchSize,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logrus.WithField("component", "sync"),
	}
}

func (u *syncUsecase) Sync(ctx context.Context, userID string) (int, error) {
	log := u.log.WithField("user_id", userID)

	accessToken, err := u.tokens.EnsureValidAccessToken(ctx, userID)
	if err != nil {
		return 0, err
	}

	result, err := u.fetcher.FetchRecent(ctx, accessToken, int64(u.batchSize), "")
	if err != nil {
		return 0, err
	}

	existing, err := u.itemRepo.ProviderMessageIDs(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load known message ids: %w", err)
	}
	if existing == nil {
		existing = map[string]struct{}{}
	}

	fresh := make([]*emaildomain.CanonicalEmail, 0, len(result.Emails))
	for _, email := range result.Emails {
		if _, seen := existing[email.ProviderMessageID]; seen {
			continue
		}
		existing[email.ProviderMessageID] = struct{}{}
		fresh = append(fresh, email)
	}

	if len(fresh) == 0 {
		u.recordState(ctx, log, userID, 0, result.NextPageToken)
		return 0, nil
	}

	lanes := u.classify(ctx, log, fresh)

	created := 0
	var last time.Time
	for i, email := range fresh {
		stamp := u.now()
		// created_at orders listings; keep batch order even within one clock tick.
		if !stamp.After(last) {
			stamp = last.Add(time.Microsecond)
		}
		last = stamp

		item := email.ToItem(userID, lanes[i], stamp)
		inserted, err := u.itemRepo.InsertEmailIfAbsent(ctx, item)
		if err != nil {
			log.WithError(err).WithField("message_id", email.ProviderMessageID).Warn("insert failed, continuing batch")
			continue
		}
		if !inserted {
			log.WithField("message_id", email.ProviderMessageID).Debug("message already stored by a concurrent sync")
			continue
		}
		created++
	}

	u.recordState(ctx, log, userID, created, result.NextPageToken)
	log.WithFields(logrus.Fields{"fetched": len(result.Emails), "new": len(fresh), "created": created}).Info("sync finished")
	return created, nil
}

func (u *syncUsecase) Status(ctx context.Context, userID string) (*emaildomain.SyncState, error) {
	return u.stateRepo.Get(ctx, userID)
}

// classify never fails: any classification problem assigns the fallback lane to the whole batch.
func (u *syncUsecase) classify(ctx context.Context, log *logrus.Entry, emails []*emaildomain.CanonicalEmail) []itemdomain.Lane {
	inputs := make([]emaildomain.ClassifyInput, len(emails))
	for i, e := range emails {
		inputs[i] = e.ClassifyInput()
	}

	lanes, err := u.classifier.Classify(ctx, inputs)
	if err == nil && len(lanes) != len(emails) {
		err = &emaildomain.ClassificationError{Reason: fmt.Sprintf("got %d lanes for %d emails", len(lanes), len(emails))}
	}
	if err == nil {
		return lanes
	}

	logger.CaptureError(log.WithField("batch", len(emails)), err, "classification failed, using fallback lane")
	fallback := make([]itemdomain.Lane, len(emails))
	for i := range fallback {
		fallback[i] = itemdomain.FallbackLane
	}
	return fallback
}

func (u *syncUsecase) recordState(ctx context.Context, log *logrus.Entry, userID string, count int, nextPageToken string) {
	if u.stateRepo == nil {
		return
	}
	if err := u.stateRepo.Record(ctx, userID, count, nextPageToken); err != nil {
		log.WithError(err).Warn("failed to record sync state")
	}
}
