package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shawkym/moragents-tui/pkg/client"
	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/metrics"
)

// ErrNothingToSync is returned by Reconcile when no credentials were ever
// saved locally.
var ErrNothingToSync = errors.New("no credentials saved yet")

// Syncer pushes credentials to the backend.
type Syncer interface {
	SetXAPIKeys(ctx context.Context, keys client.XAPIKeys) error
}

// SyncResult reports the outcome of a save or reconcile.
type SyncResult struct {
	Status SyncStatus
	Err    error
}

// Synced reports whether the backend accepted the credentials.
func (r SyncResult) Synced() bool {
	return r.Status == StatusSynced
}

// Message is a short human-readable summary of the result.
func (r SyncResult) Message() string {
	switch r.Status {
	case StatusSynced:
		return "Credentials saved and synced"
	case StatusPending:
		return "Saved locally, sync pending"
	case StatusFailed:
		if r.Err != nil {
			return fmt.Sprintf("Saved locally, sync failed: %v", r.Err)
		}
		return "Saved locally, sync failed"
	}
	if errors.Is(r.Err, ErrNothingToSync) {
		return "Nothing to sync: no credentials saved yet"
	}
	if r.Err != nil {
		return fmt.Sprintf("Save failed: %v", r.Err)
	}
	return ""
}

// Service is the single writer of the local credential store. Local storage
// is authoritative; the backend copy is brought in line by Save or Reconcile.
type Service struct {
	store   Store
	syncer  Syncer
	metrics *metrics.Metrics
}

// NewService creates a credential service.
func NewService(store Store, syncer Syncer, m *metrics.Metrics) *Service {
	return &Service{store: store, syncer: syncer, metrics: m}
}

// Load returns the stored credentials.
func (s *Service) Load(ctx context.Context) (Credentials, error) {
	return s.store.Load(ctx)
}

// Status returns the persisted sync state.
func (s *Service) Status(ctx context.Context) (SyncState, error) {
	return s.store.SyncState(ctx)
}

// Save writes creds locally and then attempts one backend sync. The local
// write is never rolled back. A non-nil Err with an empty Status means the
// local write itself failed.
func (s *Service) Save(ctx context.Context, creds Credentials) SyncResult {
	if err := s.store.Save(ctx, creds); err != nil {
		log.WithError(err).Error("failed to save credentials locally")
		return SyncResult{Err: err}
	}
	if err := s.store.SetSyncState(ctx, SyncState{Status: StatusPending}); err != nil {
		log.WithError(err).Warn("failed to record pending sync state")
	}

	log.Info("credentials saved locally")
	return s.push(ctx, creds)
}

// Reconcile pushes the stored credentials to the backend if the last sync
// did not succeed. It is only ever invoked explicitly. Nothing is sent when
// no credentials were ever saved, so the backend copy is never blanked.
func (s *Service) Reconcile(ctx context.Context) SyncResult {
	state, err := s.store.SyncState(ctx)
	if err != nil {
		return SyncResult{Err: err}
	}
	switch state.Status {
	case StatusSynced:
		return SyncResult{Status: StatusSynced}
	case StatusNone:
		log.Info("no saved credentials to reconcile")
		return SyncResult{Err: ErrNothingToSync}
	}

	creds, err := s.store.Load(ctx)
	if err != nil {
		return SyncResult{Err: err}
	}

	log.WithField("previous_status", string(state.Status)).Info("reconciling credentials with backend")
	return s.push(ctx, creds)
}

func (s *Service) push(ctx context.Context, creds Credentials) SyncResult {
	if s.syncer == nil {
		return SyncResult{Status: StatusPending, Err: errors.New("no backend configured")}
	}

	start := time.Now()
	err := s.syncer.SetXAPIKeys(ctx, creds.ToWire())

	state := SyncState{Status: StatusSynced}
	if err != nil {
		state = SyncState{Status: StatusFailed, LastError: err.Error()}
		log.WithError(err).WithField("duration", time.Since(start).String()).Error("failed to sync credentials with backend")
		s.metrics.RecordCredentialSync("failed")
	} else {
		log.WithField("duration", time.Since(start).String()).Info("credentials synced with backend")
		s.metrics.RecordCredentialSync("synced")
	}

	if serr := s.store.SetSyncState(ctx, state); serr != nil {
		log.WithError(serr).Warn("failed to record sync state")
	}

	return SyncResult{Status: state.Status, Err: err}
}
