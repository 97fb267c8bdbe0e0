package audit

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/queue"
)

type stubActivityStore struct {
	entries []model.ActivityLogEntry
	err     error
}

func (s *stubActivityStore) Insert(_ context.Context, e model.ActivityLogEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func actor() model.User {
	return model.User{ID: 9, Email: "admin@example.com", Role: model.RoleAdmin}
}

func TestRecordWritesEntryAndPublishes(t *testing.T) {
	store := &stubActivityStore{}
	var published []queue.ActivityRecordedEvent
	a := New(store, func(_ context.Context, ev queue.ActivityRecordedEvent) error {
		published = append(published, ev)
		return nil
	}, zap.NewNop())

	target := uint64(12)
	a.Record(context.Background(), actor(), model.ActionUpdateUser, &target,
		"deactivated account", map[string]any{"is_active": false}, "10.0.0.1", "curl/8")

	require.Len(t, store.entries, 1)
	e := store.entries[0]
	assert.Equal(t, uint64(9), e.ActorID)
	assert.Equal(t, model.ActionUpdateUser, e.Action)
	require.NotNil(t, e.TargetID)
	assert.Equal(t, uint64(12), *e.TargetID)
	assert.Equal(t, "10.0.0.1", e.IP)

	require.Len(t, published, 1)
	assert.Equal(t, "admin@example.com", published[0].ActorEmail)
	assert.NotEmpty(t, published[0].RecordedAt)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	store := &stubActivityStore{err: sql.ErrConnDone}
	core, logs := observer.New(zap.ErrorLevel)
	var published int
	a := New(store, func(context.Context, queue.ActivityRecordedEvent) error {
		published++
		return nil
	}, zap.New(core))

	// Must not panic or surface the error to the caller.
	a.Record(context.Background(), actor(), model.ActionChangePassword, nil, "reset", nil, "", "")

	assert.Equal(t, 1, logs.FilterMessage("audit write failed").Len())
	assert.Zero(t, published, "no event may be published for an entry that was not stored")
}

func TestRecordSwallowsPublishFailure(t *testing.T) {
	store := &stubActivityStore{}
	core, logs := observer.New(zap.WarnLevel)
	a := New(store, func(context.Context, queue.ActivityRecordedEvent) error {
		return assert.AnError
	}, zap.New(core))

	a.Record(context.Background(), actor(), model.ActionUpdatePermissions, nil, "override", nil, "", "")

	require.Len(t, store.entries, 1, "the entry still lands even when the broker is down")
	assert.Equal(t, 1, logs.FilterMessage("audit event publish failed").Len())
}

func TestRecordNilPublisher(t *testing.T) {
	store := &stubActivityStore{}
	a := New(store, nil, zap.NewNop())

	a.Record(context.Background(), actor(), model.ActionUpdateUser, nil, "x", nil, "", "")
	assert.Len(t, store.entries, 1)
}
