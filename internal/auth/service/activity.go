package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/store"
	"github.com/aussiebroadwan/cms/pkg/slogx"
	"github.com/google/uuid"
)

// activityTimeout bounds a single background activity write.
const activityTimeout = 5 * time.Second

// ActivityRecorder writes activity entries in the background. Failures are
// logged and never reach the caller.
type ActivityRecorder struct {
	Store store.Store
	Now   func() time.Time

	wg sync.WaitGroup
}

func NewActivityRecorder(s store.Store) *ActivityRecorder {
	return &ActivityRecorder{Store: s, Now: time.Now}
}

// Record queues an entry for action performed by u. It returns immediately.
// The write outlives request cancellation but keeps the request's logger.
func (r *ActivityRecorder) Record(ctx context.Context, action domain.Action, u domain.User, meta RequestMeta, metadata map[string]any) {
	if r == nil || r.Store == nil {
		return
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	entry := domain.ActivityEntry{
		ID:        uuid.NewString(),
		UserID:    &u.ID,
		Action:    action,
		Entity:    "user",
		EntityID:  &u.ID,
		ActorName: u.Username,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Metadata:  metadata,
		CreatedAt: now(),
	}
	detached := context.WithoutCancel(ctx)

	r.wg.Go(func() {
		writeCtx, cancel := context.WithTimeout(detached, activityTimeout)
		defer cancel()

		if err := r.Store.Activity().CreateEntry(writeCtx, entry); err != nil {
			slogx.FromContext(detached).Warn("failed to record activity",
				slog.String("action", string(action)),
				slog.Int64("user_id", u.ID),
				slog.Any("error", err),
			)
		}
	})
}

// Wait blocks until every queued write has finished.
func (r *ActivityRecorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}
