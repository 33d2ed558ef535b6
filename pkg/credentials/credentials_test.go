package credentials

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shawkym/moragents-tui/pkg/client"
	"github.com/shawkym/moragents-tui/pkg/metrics"
)

type fakeSyncer struct {
	err   error
	calls int
	last  client.XAPIKeys
}

func (f *fakeSyncer) SetXAPIKeys(ctx context.Context, keys client.XAPIKeys) error {
	f.calls++
	f.last = keys
	return f.err
}

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "creds", "credentials.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCredentials() Credentials {
	return Credentials{
		APIKey:            "key-1234567890",
		APISecret:         "secret-abcdef",
		AccessToken:       "tok",
		AccessTokenSecret: "tok-secret-99999",
		BearerToken:       "bearer-XYZ12",
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"abcde", "abcde"},
		{"abcdef", "•••••bcdef"},
		{"sk-1234567890", "•••••67890"},
		{"ééééééé", "•••••ééééé"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if Display("") != NotSet {
		t.Errorf("expected %q for empty value", NotSet)
	}
	if Display("1234567") != "•••••34567" {
		t.Errorf("unexpected display %q", Display("1234567"))
	}
}

func TestFieldsOrder(t *testing.T) {
	want := []string{"API Key", "API Secret", "Access Token", "Access Token Secret", "Bearer Token"}
	if len(Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(Fields))
	}
	for i, f := range Fields {
		if f.Label != want[i] {
			t.Errorf("field %d: expected %s, got %s", i, want[i], f.Label)
		}
	}
}

func TestToWire(t *testing.T) {
	w := sampleCredentials().ToWire()
	if w.APIKey != "key-1234567890" || w.AccessTokenSecret != "tok-secret-99999" || w.BearerToken != "bearer-XYZ12" {
		t.Errorf("unexpected wire mapping %+v", w)
	}
}

func TestSQLiteStoreDefaultsEmpty(t *testing.T) {
	store := openTestStore(t)

	creds, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds != (Credentials{}) {
		t.Errorf("expected empty credentials, got %+v", creds)
	}

	state, err := store.SyncState(context.Background())
	if err != nil {
		t.Fatalf("SyncState failed: %v", err)
	}
	if state.Status != StatusNone {
		t.Errorf("expected no sync state, got %s", state.Status)
	}
}

func TestSQLiteStoreSaveOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleCredentials()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	updated := sampleCredentials()
	updated.APIKey = "rotated"
	if err := store.Save(ctx, updated); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != updated {
		t.Errorf("expected %+v, got %+v", updated, got)
	}
}

func TestServiceSaveSynced(t *testing.T) {
	store := openTestStore(t)
	syncer := &fakeSyncer{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := NewService(store, syncer, m)

	result := svc.Save(context.Background(), sampleCredentials())
	if !result.Synced() || result.Err != nil {
		t.Fatalf("expected synced result, got %+v", result)
	}
	if syncer.calls != 1 {
		t.Errorf("expected one backend call, got %d", syncer.calls)
	}
	if syncer.last.APISecret != "secret-abcdef" {
		t.Errorf("unexpected payload %+v", syncer.last)
	}

	state, _ := store.SyncState(context.Background())
	if state.Status != StatusSynced {
		t.Errorf("expected synced state, got %s", state.Status)
	}
	if got := testutil.ToFloat64(m.CredentialSyncs.WithLabelValues("synced")); got != 1 {
		t.Errorf("expected one synced metric, got %v", got)
	}
}

func TestServiceSaveKeepsLocalOnBackendFailure(t *testing.T) {
	store := openTestStore(t)
	syncer := &fakeSyncer{err: errors.New("HTTP 500: boom")}
	svc := NewService(store, syncer, nil)
	ctx := context.Background()

	result := svc.Save(ctx, sampleCredentials())
	if result.Status != StatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if result.Message() != "Saved locally, sync failed: HTTP 500: boom" {
		t.Errorf("unexpected message %q", result.Message())
	}

	local, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if local != sampleCredentials() {
		t.Errorf("local store should reflect new values, got %+v", local)
	}

	state, _ := svc.Status(ctx)
	if state.Status != StatusFailed || state.LastError != "HTTP 500: boom" {
		t.Errorf("unexpected sync state %+v", state)
	}
	if syncer.calls != 1 {
		t.Errorf("expected no retry, got %d calls", syncer.calls)
	}
}

func TestServiceReconcile(t *testing.T) {
	store := openTestStore(t)
	syncer := &fakeSyncer{err: errors.New("offline")}
	svc := NewService(store, syncer, nil)
	ctx := context.Background()

	svc.Save(ctx, sampleCredentials())

	syncer.err = nil
	result := svc.Reconcile(ctx)
	if !result.Synced() {
		t.Fatalf("expected reconcile to sync, got %+v", result)
	}
	if syncer.calls != 2 {
		t.Errorf("expected two backend calls, got %d", syncer.calls)
	}
	if syncer.last.APIKey != "key-1234567890" {
		t.Errorf("reconcile should push stored values, got %+v", syncer.last)
	}

	// Already synced: nothing to push.
	svc.Reconcile(ctx)
	if syncer.calls != 2 {
		t.Errorf("expected no call when already synced, got %d", syncer.calls)
	}
}

func TestServiceReconcileWithoutSavedCredentials(t *testing.T) {
	store := openTestStore(t)
	syncer := &fakeSyncer{}
	svc := NewService(store, syncer, nil)
	ctx := context.Background()

	result := svc.Reconcile(ctx)
	if result.Synced() {
		t.Fatal("reconcile must not report synced when nothing was saved")
	}
	if !errors.Is(result.Err, ErrNothingToSync) {
		t.Errorf("expected ErrNothingToSync, got %v", result.Err)
	}
	if result.Message() != "Nothing to sync: no credentials saved yet" {
		t.Errorf("unexpected message %q", result.Message())
	}
	if syncer.calls != 0 {
		t.Errorf("expected no backend call, got %d", syncer.calls)
	}

	state, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if state.Status != StatusNone {
		t.Errorf("sync state should stay unset, got %s", state.Status)
	}
}

func TestServiceWithoutSyncerStaysPending(t *testing.T) {
	svc := NewService(openTestStore(t), nil, nil)

	result := svc.Save(context.Background(), sampleCredentials())
	if result.Status != StatusPending {
		t.Errorf("expected pending status, got %s", result.Status)
	}
}
