package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform records sends and returns a configured error.
type fakePlatform struct {
	err   error
	calls []fakeSend
}

type fakeSend struct {
	identity string
	payload  Payload
}

func (f *fakePlatform) Send(_ context.Context, identity string, payload Payload) error {
	f.calls = append(f.calls, fakeSend{identity: identity, payload: payload})
	return f.err
}

// fakeLinks resolves one member to one linked identity.
type fakeLinks struct {
	member string
	linked string
	err    error
}

func (f *fakeLinks) LinkedIdentity(_ context.Context, memberID string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	if memberID == f.member {
		return f.linked, true, nil
	}
	return "", false, nil
}

// fixedTokens returns predetermined trace tokens.
type fixedTokens struct {
	tokens []string
	idx    int
}

func (f *fixedTokens) Generate() string {
	t := f.tokens[f.idx]
	f.idx++
	return t
}

func finePayload() Payload {
	return Payload{
		Title: "New fine",
		Fields: []Field{
			{Name: "Member", Value: "m1"},
			{Name: "Amount", Value: "500"},
			{Name: "Reason", Value: "late to raid"},
			{Name: "Issued by", Value: "officer"},
			{Name: "Fine ID", Value: "7"},
		},
	}
}

func TestNotify_MirrorsToLinkedSecondary(t *testing.T) {
	primary := &fakePlatform{}
	secondary := &fakePlatform{}
	r := NewRouter(primary, secondary, &fakeLinks{member: "m1", linked: "tg:42"}, &fixedTokens{tokens: []string{"t-1"}}, nil)

	err := r.Notify(context.Background(), "m1", finePayload())
	require.NoError(t, err)

	require.Len(t, primary.calls, 1)
	assert.Equal(t, "m1", primary.calls[0].identity)
	assert.Equal(t, "New fine", primary.calls[0].payload.Title, "primary receives the structured payload")

	require.Len(t, secondary.calls, 1)
	assert.Equal(t, "tg:42", secondary.calls[0].identity)
	assert.Empty(t, secondary.calls[0].payload.Fields, "secondary receives flattened text only")
	assert.Contains(t, secondary.calls[0].payload.Text, "Reason\nlate to raid")
}

func TestNotify_PrimaryForbiddenStillMirrors(t *testing.T) {
	primary := &fakePlatform{err: fmt.Errorf("dm closed: %w", ErrDeliveryForbidden)}
	secondary := &fakePlatform{}
	r := NewRouter(primary, secondary, &fakeLinks{member: "m1", linked: "tg:42"}, &fixedTokens{tokens: []string{"t-1"}}, nil)

	err := r.Notify(context.Background(), "m1", Payload{Text: "hello"})
	require.NoError(t, err, "a forbidden primary delivery never surfaces")
	assert.Len(t, secondary.calls, 1)
}

func TestNotify_SecondaryFailureNeverSurfaces(t *testing.T) {
	primary := &fakePlatform{}
	secondary := &fakePlatform{err: errors.New("gateway timeout")}
	r := NewRouter(primary, secondary, &fakeLinks{member: "m1", linked: "tg:42"}, &fixedTokens{tokens: []string{"t-1"}}, nil)

	err := r.Notify(context.Background(), "m1", Payload{Text: "hello"})
	require.NoError(t, err)
	assert.Len(t, primary.calls, 1)
	assert.Len(t, secondary.calls, 1, "exactly one attempt, no retry")
}

func TestNotify_NoLinkSkipsSecondary(t *testing.T) {
	primary := &fakePlatform{}
	secondary := &fakePlatform{}
	r := NewRouter(primary, secondary, &fakeLinks{member: "someone-else", linked: "tg:42"}, &fixedTokens{tokens: []string{"t-1"}}, nil)

	err := r.Notify(context.Background(), "m1", Payload{Text: "hello"})
	require.NoError(t, err)
	assert.Len(t, primary.calls, 1)
	assert.Empty(t, secondary.calls)
}

func TestNotify_LinkLookupFailurePropagates(t *testing.T) {
	primary := &fakePlatform{}
	secondary := &fakePlatform{}
	r := NewRouter(primary, secondary, &fakeLinks{err: errors.New("database is locked")}, &fixedTokens{tokens: []string{"t-1"}}, nil)

	err := r.Notify(context.Background(), "m1", Payload{Text: "hello"})
	require.Error(t, err)
	assert.Len(t, primary.calls, 1, "primary attempt happens before the lookup")
}

func TestFlatten_TextOnly(t *testing.T) {
	p := Payload{Text: "plain broadcast"}
	assert.Equal(t, "plain broadcast", p.Flatten())
}

func TestFlatten_Golden(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "fine_alert", []byte(finePayload().Flatten()))
}
