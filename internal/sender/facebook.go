package sender

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	// Pixel timestamps need the IANA zone database even on scratch images.
	_ "time/tzdata"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/funnel"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/transport"
)

// Facebook pixel constants. These mirror what the pixel script itself
// reports, which is what the endpoint expects to see.
const (
	pixelTimezone  = "Europe/Kyiv"
	pixelVersion   = "2.9.107"
	pixelRevision  = "stable"
	viewportWidth  = "1372"
	viewportHeight = "915"
)

// bracketDecoder restores literal brackets in parameter names such as
// cd[value]; the pixel endpoint does not accept them percent-encoded.
var bracketDecoder = strings.NewReplacer("%5B", "[", "%5D", "]")

// Facebook delivers conversions to the Facebook pixel endpoint as GET
// requests, simulating the browser pixel for each funnel sub-event.
type Facebook struct {
	client   *transport.Client
	endpoint string
	log      logger.Logger
	loc      *time.Location
}

// NewFacebook creates the Facebook adapter. It fails if the pixel
// reference time zone is not available in the local tz database.
func NewFacebook(client *transport.Client, endpoint string, log logger.Logger) (*Facebook, error) {
	loc, err := time.LoadLocation(pixelTimezone)
	if err != nil {
		return nil, fmt.Errorf("load pixel timezone: %w", err)
	}

	return &Facebook{
		client:   client,
		endpoint: endpoint,
		log:      log,
		loc:      loc,
	}, nil
}

// Source returns the click source this adapter serves.
func (f *Facebook) Source() domain.ClickSource {
	return domain.SourceFacebook
}

// Send builds the pixel query for one funnel sub-event and issues the
// GET. Returns ErrEventNotMapped when the sub-event is outside the
// funnel tables.
func (f *Facebook) Send(ctx context.Context, req *domain.ConversionRequest, click *domain.Click, event string) (Result, error) {
	params, ok := f.BuildParams(click, event)
	if !ok {
		f.log.Error("Conversion event not found", logger.String("event", event))
		return Result{}, ErrEventNotMapped
	}

	fullURL := f.endpoint + "?" + bracketDecoder.Replace(params.Encode())
	f.log.Info("Sending conversion to Facebook", logger.String("url", fullURL))

	timeout := time.Duration(req.Timeout) * time.Second
	resp, err := f.client.Get(ctx, fullURL, timeout)
	if err != nil {
		f.log.Error("Conversion not sent", logger.Error(err))
		return Result{Sent: false, URL: fullURL}, nil
	}
	if resp.Status != http.StatusOK {
		f.log.Error("Conversion not sent",
			logger.Int("status", resp.Status),
			logger.String("response", string(resp.Body)),
		)
		return Result{Sent: false, URL: fullURL}, nil
	}

	return Result{Sent: true, URL: fullURL}, nil
}

// BuildParams assembles the pixel query parameter set for a funnel
// sub-event. The second return is false when the sub-event has no
// pixel mapping.
func (f *Facebook) BuildParams(click *domain.Click, event string) (url.Values, bool) {
	stage, ok := funnel.Lookup(event)
	if !ok {
		return nil, false
	}

	ts := strconv.FormatInt(time.Now().In(f.loc).Unix(), 10)

	params := url.Values{}
	params.Set("id", click.RMA)
	params.Set("ev", stage.PixelEvent)
	params.Set("dl", click.Domain)
	params.Set("rl", "")
	params.Set("if", "false")
	params.Set("ts", ts)
	params.Set("cd[content_ids]", click.ClickID)
	params.Set("cd[content_type]", "product")
	params.Set("cd[order_id]", click.ClickID)
	params.Set("cd[value]", "1")
	params.Set("cd[currency]", "USD")
	params.Set("sw", viewportWidth)
	params.Set("sh", viewportHeight)
	params.Set("ud[external_id]", externalID(click, stage))
	params.Set("v", pixelVersion)
	params.Set("r", pixelRevision)
	params.Set("ec", "4")
	params.Set("o", "30")
	params.Set("fbc", "fb.1."+ts+"."+click.Fbclid)
	params.Set("fbp", "fb.1."+ts+"."+strconv.Itoa(click.ULB))
	params.Set("it", ts)
	params.Set("coo", "false")
	params.Set("rqm", "GET")

	return params, true
}

// externalID is the stable per-user identifier Facebook matches
// conversions on: a hex SHA-256 of the click identifier plus the
// funnel-stage weight.
func externalID(click *domain.Click, stage funnel.Stage) string {
	id := click.Fbclid
	if id == "" {
		id = click.ClickID
	}

	h := sha256.Sum256([]byte(id + strconv.Itoa(stage.Weight)))
	return hex.EncodeToString(h[:])
}
