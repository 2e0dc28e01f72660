package domain

import (
	"strconv"
	"time"
)

// recordTimeLayout is the timestamp format downstream consumers expect
// on stored records.
const recordTimeLayout = "2006-01-02 15:04:05"

// Time is a timestamp that serializes as "YYYY-MM-DD HH:MM:SS".
type Time struct {
	time.Time
}

// MarshalJSON renders the timestamp in the record layout.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Format(recordTimeLayout))), nil
}

// Click represents one observed ad click. It is the attribution anchor:
// conversions are correlated against it by click_id or dedup key.
//
// ClickSource and Key are derived once during ingestion and never
// re-derived afterward.
type Click struct {
	ID          int64       `json:"id"`
	ClickID     string      `json:"click_id" binding:"required"`
	ServiceTag  string      `json:"service_tag,omitempty"`
	UserAgent   string      `json:"user_agent,omitempty"`
	Key         string      `json:"key"`
	Initiator   string      `json:"initiator"`
	ClickSource ClickSource `json:"click_source"`
	Domain      string      `json:"domain" binding:"required"`
	RMA         string      `json:"rma" binding:"required"`
	ULB         int         `json:"ulb"`
	XCN         int64       `json:"xcn,omitempty"`
	Fbclid      string      `json:"fbclid,omitempty"`
	Gclid       string      `json:"gclid,omitempty"`
	Ttclid      string      `json:"ttclid,omitempty"`
	CreatedAt   Time        `json:"created_at"`
}

// SourceIdentifier returns the network click identifier matching the
// click's recorded source, or the empty string if that identifier was
// never captured.
func (c *Click) SourceIdentifier() string {
	switch c.ClickSource {
	case SourceFacebook:
		return c.Fbclid
	case SourceGoogle:
		return c.Gclid
	case SourceTiktok:
		return c.Ttclid
	default:
		return ""
	}
}
