package domain

// ConversionRequest is one inbound notification that a user progressed
// a funnel stage. It references the originating click by click_id or,
// for older integrations, by dedup key.
type ConversionRequest struct {
	ClickID string `json:"click_id"`
	Key     string `json:"key"`
	Event   string `json:"event" binding:"required"`
	Appclid string `json:"appclid,omitempty"`
	Clabel  string `json:"clabel,omitempty"`
	Gtag    string `json:"gtag,omitempty"`
	Timeout int    `json:"timeout,omitempty"`
}

// Conversion is the durable outcome of one forwarding attempt. Fields
// identifying the originating click are denormalized so the record
// stands on its own at read time.
//
// Event holds the sub-event actually sent, which for Facebook funnel
// simulation is not necessarily the caller's original event.
type Conversion struct {
	ID               int64       `json:"id"`
	Key              string      `json:"key,omitempty"`
	ClickID          string      `json:"click_id"`
	Domain           string      `json:"domain"`
	Event            string      `json:"event"`
	RMA              string      `json:"rma"`
	ULB              int         `json:"ulb"`
	Fbclid           string      `json:"fbclid,omitempty"`
	Gclid            string      `json:"gclid,omitempty"`
	Ttclid           string      `json:"ttclid,omitempty"`
	Appclid          string      `json:"appclid,omitempty"`
	Clabel           string      `json:"clabel,omitempty"`
	Gtag             string      `json:"gtag,omitempty"`
	Initiator        string      `json:"initiator"`
	ConversionSource ClickSource `json:"conversion_source"`
	ConversionURL    string      `json:"conversion_url"`
	IsSent           bool        `json:"is_sent"`
	CreatedAt        Time        `json:"created_at"`
}
