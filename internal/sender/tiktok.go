package sender

import (
	"context"
	"net/http"
	"time"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/transport"
)

// TiktokPayload is the body posted to the TikTok endpoint.
//
// TODO: map real click/conversion fields onto the TikTok Events API;
// only the static placeholder shape is wired so far.
type TiktokPayload struct {
	Params    TiktokParams `json:"params"`
	Timeout   int          `json:"timeout"`
	URL       string       `json:"url"`
	UserAgent string       `json:"user_agent"`
}

// TiktokParams holds the placeholder pagination fields.
type TiktokParams struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

// Placeholder payload values.
const (
	tiktokLimit   = 10
	tiktokPage    = 1
	tiktokTimeout = 1
)

// Tiktok delivers conversions to a fixed endpoint as JSON POSTs.
type Tiktok struct {
	client   *transport.Client
	endpoint string
	log      logger.Logger
}

// NewTiktok creates the TikTok adapter.
func NewTiktok(client *transport.Client, endpoint string, log logger.Logger) *Tiktok {
	return &Tiktok{
		client:   client,
		endpoint: endpoint,
		log:      log,
	}
}

// Source returns the click source this adapter serves.
func (t *Tiktok) Source() domain.ClickSource {
	return domain.SourceTiktok
}

// Send posts the placeholder payload. TikTok events are never
// funnel-expanded.
func (t *Tiktok) Send(ctx context.Context, req *domain.ConversionRequest, click *domain.Click, event string) (Result, error) {
	payload := t.BuildPayload(click)

	t.log.Info("Sending conversion to TikTok",
		logger.String("url", t.endpoint),
		logger.String("event", event),
	)

	resp, err := t.client.PostJSON(ctx, t.endpoint, payload, tiktokTimeout*time.Second)
	if err != nil {
		t.log.Error("Conversion not sent", logger.Error(err))
		return Result{Sent: false, URL: t.endpoint}, nil
	}
	if resp.Status != http.StatusOK {
		t.log.Error("Conversion not sent",
			logger.Int("status", resp.Status),
			logger.String("response", string(resp.Body)),
		)
		return Result{Sent: false, URL: t.endpoint}, nil
	}

	return Result{Sent: true, URL: t.endpoint}, nil
}

// BuildPayload assembles the placeholder body.
func (t *Tiktok) BuildPayload(click *domain.Click) TiktokPayload {
	return TiktokPayload{
		Params:    TiktokParams{Limit: tiktokLimit, Page: tiktokPage},
		Timeout:   tiktokTimeout,
		URL:       t.endpoint,
		UserAgent: click.Initiator,
	}
}
