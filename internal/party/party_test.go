package party

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrigorijsPerec/hell-bot/internal/notify"
	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

type recordingNotifier struct {
	members []string
	texts   []string
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, memberID string, payload notify.Payload) error {
	n.members = append(n.members, memberID)
	n.texts = append(n.texts, payload.Text)
	return n.err
}

func newTestService(t *testing.T, notifier Notifier) *Service {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, notifier, nil)
}

func TestCreateJoinLeave(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, "creator", "dungeon run")
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, id, "m2"))
	require.NoError(t, svc.Join(ctx, id, "m2"), "joining twice is a no-op")

	parties, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, 2, parties[0].MemberCount)
	assert.Equal(t, "dungeon run", parties[0].Info)

	require.NoError(t, svc.Leave(ctx, id, "m2"))

	parties, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, parties[0].MemberCount)
}

func TestDelete_UnknownParty(t *testing.T) {
	svc := newTestService(t, nil)

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete_RemovesRoster(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, "creator", "raid")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))

	parties, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, parties)

	err = svc.Join(ctx, id, "m2")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNotifyMembers_SkipsSender(t *testing.T) {
	n := &recordingNotifier{}
	svc := newTestService(t, n)
	ctx := context.Background()

	id, err := svc.Create(ctx, "creator", "raid")
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, id, "m2"))
	require.NoError(t, svc.Join(ctx, id, "m3"))

	require.NoError(t, svc.NotifyMembers(ctx, id, "we start at dusk", "creator"))

	assert.ElementsMatch(t, []string{"m2", "m3"}, n.members)
	require.NotEmpty(t, n.texts)
	assert.Contains(t, n.texts[0], "we start at dusk")
}

func TestNotifyMembers_RecipientFailureDoesNotAbort(t *testing.T) {
	n := &recordingNotifier{err: assert.AnError}
	svc := newTestService(t, n)
	ctx := context.Background()

	id, err := svc.Create(ctx, "creator", "raid")
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, id, "m2"))
	require.NoError(t, svc.Join(ctx, id, "m3"))

	require.NoError(t, svc.NotifyMembers(ctx, id, "text", ""))
	assert.Len(t, n.members, 3, "every member still gets an attempt")
}
