// Package sender contains one adapter per advertising network. Each
// adapter knows its network's payload shape and endpoint, builds the
// outbound request from a click and a conversion event, and reports a
// pass/fail result with the resolved destination URL.
package sender

import (
	"context"
	"errors"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
)

// ErrEventNotMapped signals that a conversion sub-event has no mapping
// for the target network.
var ErrEventNotMapped = errors.New("conversion event not found")

// Result is the outcome of one network call. A failed send is a normal
// result, not an error: the router records it and decides whether to
// continue.
type Result struct {
	Sent bool
	URL  string
}

// Adapter delivers one conversion sub-event to a single network.
type Adapter interface {
	// Source is the click source this adapter serves.
	Source() domain.ClickSource

	// Send builds the network payload for the given sub-event and
	// issues the call. Transport failures yield Result{Sent: false},
	// not an error; ErrEventNotMapped is returned when the sub-event
	// cannot be expressed for this network at all.
	Send(ctx context.Context, req *domain.ConversionRequest, click *domain.Click, event string) (Result, error)
}
