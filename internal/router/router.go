// Package router resolves conversion requests against their recorded
// clicks and drives the per-network send.
package router

import (
	"context"
	"errors"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/funnel"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/sender"
	"github.com/ErikRoss/ConversionsManager/internal/storage"
)

var (
	// ErrClickNotFound is returned when no click resolves for the
	// request's identifier.
	ErrClickNotFound = errors.New("click not found")

	// ErrSourceNotSupported is returned when the click's recorded
	// source has no adapter.
	ErrSourceNotSupported = errors.New("click source not supported")
)

// Outcome aggregates a dispatched conversion.
//
// Sent is true only when every invoked network call succeeded. Saved
// is false when at least one built record failed to persist; that
// never invalidates the send itself, but the caller is told.
type Outcome struct {
	Sent  bool
	Saved bool
}

// ConversionRouter selects the adapter matching a click's recorded
// source and orchestrates the send, expanding Facebook conversions
// into their funnel sequence.
type ConversionRouter struct {
	store    storage.AttributionStore
	adapters map[domain.ClickSource]sender.Adapter
	log      logger.Logger
}

// New creates a ConversionRouter over the given adapters.
func New(store storage.AttributionStore, log logger.Logger, adapters ...sender.Adapter) *ConversionRouter {
	bySource := make(map[domain.ClickSource]sender.Adapter, len(adapters))
	for _, a := range adapters {
		bySource[a.Source()] = a
	}

	return &ConversionRouter{
		store:    store,
		adapters: bySource,
		log:      log,
	}
}

// Dispatch resolves the request's click, sends the conversion to the
// click's network, and persists one record per built payload.
//
// For Facebook the logical event is expanded into its funnel sequence
// and sent strictly in order; the first mapping miss or failed send
// halts the remainder, since later sub-events are only meaningful
// after earlier ones occurred.
func (r *ConversionRouter) Dispatch(ctx context.Context, req *domain.ConversionRequest) (Outcome, error) {
	click, err := r.resolveClick(ctx, req)
	if err != nil {
		return Outcome{}, err
	}

	adapter, ok := r.adapters[click.ClickSource]
	if !ok {
		r.log.Warn("No adapter for click source",
			logger.String("click_source", string(click.ClickSource)),
			logger.String("click_id", click.ClickID),
		)
		return Outcome{}, ErrSourceNotSupported
	}

	events := []string{req.Event}
	if click.ClickSource == domain.SourceFacebook {
		events = funnel.Expand(req.Event)
	}

	outcome := Outcome{Sent: true, Saved: true}
	for _, event := range events {
		result, sendErr := adapter.Send(ctx, req, click, event)
		if sendErr != nil {
			// No payload was built, so there is nothing to record.
			return outcome, sendErr
		}

		if !r.saveConversion(ctx, req, click, event, result) {
			outcome.Saved = false
		}

		if !result.Sent {
			outcome.Sent = false
			break
		}
	}

	return outcome, nil
}

// resolveClick looks the click up by whichever identifier the request
// carries. Newer integrations send click_id; older ones send the dedup
// key.
func (r *ConversionRouter) resolveClick(ctx context.Context, req *domain.ConversionRequest) (*domain.Click, error) {
	var (
		click *domain.Click
		err   error
	)

	switch {
	case req.ClickID != "":
		click, err = r.store.FindClickByClickID(ctx, req.ClickID)
	case req.Key != "":
		click, err = r.store.FindClickByKey(ctx, req.Key)
	default:
		return nil, ErrClickNotFound
	}

	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrClickNotFound
	}
	if err != nil {
		return nil, err
	}

	return click, nil
}

// saveConversion persists the record for one attempted sub-event and
// reports whether it was saved. Persistence failures are logged, never
// escalated: the send outcome stands on its own.
func (r *ConversionRouter) saveConversion(ctx context.Context, req *domain.ConversionRequest, click *domain.Click, event string, result sender.Result) bool {
	conv := &domain.Conversion{
		Key:              click.Key,
		ClickID:          click.ClickID,
		Domain:           click.Domain,
		Event:            event,
		RMA:              click.RMA,
		ULB:              click.ULB,
		Fbclid:           click.Fbclid,
		Gclid:            click.Gclid,
		Ttclid:           click.Ttclid,
		Appclid:          req.Appclid,
		Clabel:           req.Clabel,
		Gtag:             req.Gtag,
		Initiator:        click.Initiator,
		ConversionSource: click.ClickSource,
		ConversionURL:    result.URL,
		IsSent:           result.Sent,
	}

	id, err := r.store.InsertConversion(ctx, conv)
	if err != nil {
		r.log.Error("Failed to save conversion",
			logger.Error(err),
			logger.String("click_id", click.ClickID),
			logger.String("event", event),
		)
		return false
	}

	r.log.Info("Conversion saved",
		logger.Int64("id", id),
		logger.String("event", event),
		logger.Bool("is_sent", result.Sent),
	)
	return true
}
