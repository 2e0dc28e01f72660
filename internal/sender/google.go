package sender

import (
	"context"
	"net/http"
	"time"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/transport"
)

// GooglePayload is the structured body posted to the Google relay.
type GooglePayload struct {
	Params    GoogleParams `json:"params"`
	Timeout   int          `json:"timeout"`
	URL       string       `json:"url"`
	UserAgent string       `json:"user_agent"`
}

// GoogleParams carries the conversion identifiers the relay needs to
// report the event upstream.
type GoogleParams struct {
	Event  string `json:"event"`
	Clid   string `json:"clid"`
	XCN    int64  `json:"xcn"`
	Clabel string `json:"clabel"`
	Gtag   string `json:"gtag"`
}

// Google delivers conversions to a relay endpoint as JSON POSTs. The
// timeout field is advisory metadata for the relay's own upstream
// call, in addition to bounding our request.
type Google struct {
	client   *transport.Client
	endpoint string
	log      logger.Logger
}

// NewGoogle creates the Google adapter.
func NewGoogle(client *transport.Client, endpoint string, log logger.Logger) *Google {
	return &Google{
		client:   client,
		endpoint: endpoint,
		log:      log,
	}
}

// Source returns the click source this adapter serves.
func (g *Google) Source() domain.ClickSource {
	return domain.SourceGoogle
}

// Send posts the conversion to the relay. Google events are never
// funnel-expanded, so the event passes through unchanged.
func (g *Google) Send(ctx context.Context, req *domain.ConversionRequest, click *domain.Click, event string) (Result, error) {
	payload := g.BuildPayload(req, click, event)

	g.log.Info("Sending conversion to Google",
		logger.String("url", g.endpoint),
		logger.String("event", event),
	)

	timeout := time.Duration(req.Timeout) * time.Second
	resp, err := g.client.PostJSON(ctx, g.endpoint, payload, timeout)
	if err != nil {
		g.log.Error("Conversion not sent", logger.Error(err))
		return Result{Sent: false, URL: g.endpoint}, nil
	}
	if resp.Status != http.StatusOK {
		g.log.Error("Conversion not sent",
			logger.Int("status", resp.Status),
			logger.String("response", string(resp.Body)),
		)
		return Result{Sent: false, URL: g.endpoint}, nil
	}

	return Result{Sent: true, URL: g.endpoint}, nil
}

// BuildPayload assembles the relay body from the click and the
// caller-supplied conversion fields.
func (g *Google) BuildPayload(req *domain.ConversionRequest, click *domain.Click, event string) GooglePayload {
	return GooglePayload{
		Params: GoogleParams{
			Event:  event,
			Clid:   click.ClickID,
			XCN:    click.XCN,
			Clabel: req.Clabel,
			Gtag:   req.Gtag,
		},
		Timeout:   req.Timeout,
		URL:       click.Domain + "/conversion",
		UserAgent: click.UserAgent,
	}
}
