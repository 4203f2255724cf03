// Package notify delivers messages to members across two messaging
// platforms. The router knows nothing about either platform SDK; it
// depends only on a narrow send capability implemented by adapters
// outside this module's core.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrDeliveryForbidden reports that the recipient is unreachable by
// policy (for example, direct messages are blocked). Platform adapters
// return it (possibly wrapped) so the router can log it as routine
// rather than as a transport failure.
var ErrDeliveryForbidden = errors.New("delivery forbidden")

// Platform is the send capability of one messaging platform.
//
// Send either delivers the payload to the identity, returns
// ErrDeliveryForbidden when the recipient blocks delivery, or returns
// any other error for transport failures.
type Platform interface {
	Send(ctx context.Context, identity string, payload Payload) error
}

// LinkLookup resolves a member's linked secondary-platform identity.
// Implemented by link.Service.
type LinkLookup interface {
	LinkedIdentity(ctx context.Context, memberID string) (string, bool, error)
}

// TraceTokenGenerator generates per-call trace tokens for log correlation.
// Production uses UUIDv7Generator; tests substitute a fixed stub.
type TraceTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 trace tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, making tokens
// sortable by creation time, which keeps interleaved delivery logs
// readable.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Router delivers a message on the member's primary platform and, when a
// link exists, mirrors it on the secondary platform as flattened text.
//
// The two delivery attempts are independent: neither failure affects the
// other or the caller. There is no retry; at most one attempt is made per
// channel per call.
type Router struct {
	primary   Platform
	secondary Platform
	links     LinkLookup
	tokens    TraceTokenGenerator
	log       *slog.Logger
}

// NewRouter creates a Router. links may be nil when identity linking is
// disabled; a nil token generator defaults to UUIDv7Generator and a nil
// logger to slog.Default().
func NewRouter(primary, secondary Platform, links LinkLookup, tokens TraceTokenGenerator, logger *slog.Logger) *Router {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		primary:   primary,
		secondary: secondary,
		links:     links,
		tokens:    tokens,
		log:       logger,
	}
}

// Notify attempts delivery on both channels. Per-channel delivery
// failures are logged and swallowed; only a store failure while looking
// up the link propagates to the caller.
func (r *Router) Notify(ctx context.Context, memberID string, payload Payload) error {
	trace := r.tokens.Generate()

	r.attempt(ctx, "primary", r.primary, memberID, payload, trace)

	if r.links == nil || r.secondary == nil {
		return nil
	}

	linkedID, ok, err := r.links.LinkedIdentity(ctx, memberID)
	if err != nil {
		return fmt.Errorf("link lookup: %w", err)
	}
	if !ok {
		return nil
	}

	r.attempt(ctx, "secondary", r.secondary, linkedID, Payload{Text: payload.Flatten()}, trace)
	return nil
}

func (r *Router) attempt(ctx context.Context, channel string, p Platform, identity string, payload Payload, trace string) {
	if p == nil {
		return
	}
	err := p.Send(ctx, identity, payload)
	switch {
	case err == nil:
	case errors.Is(err, ErrDeliveryForbidden):
		r.log.Warn("recipient blocks delivery",
			"channel", channel, "identity", identity, "trace", trace)
	default:
		r.log.Error("delivery failed",
			"channel", channel, "identity", identity, "trace", trace, "error", err)
	}
}
