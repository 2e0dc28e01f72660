// Package funnel holds the fixed funnel-simulation tables for networks
// whose attribution model expects a multi-step event sequence.
//
// Only Facebook requires expansion; other networks forward the logical
// event unchanged. The tables are static configuration: they are never
// mutated at runtime, which keeps key derivation and routing
// deterministic.
package funnel

// Stage is the Facebook pixel mapping for one funnel sub-event: the
// pixel event name sent on the wire and the numeric funnel-stage
// weight mixed into external-id hashing.
type Stage struct {
	PixelEvent string
	Weight     int
}

// sequences maps a logical conversion event to the ordered sub-events
// Facebook expects to see for that funnel stage.
var sequences = map[string][]string{
	"install": {"install", "AddToCart", "ViewContent"},
	"reg":     {"reg", "AddPaymentInfo", "InitiateCheckout"},
	"dep":     {"dep", "Subscribe", "StartTrial"},
}

// stages maps each sub-event to its pixel event and funnel weight.
var stages = map[string]Stage{
	"install":          {PixelEvent: "Lead", Weight: 3},
	"AddToCart":        {PixelEvent: "AddToCart", Weight: 3},
	"ViewContent":      {PixelEvent: "ViewContent", Weight: 3},
	"reg":              {PixelEvent: "CompleteRegistration", Weight: 4},
	"AddPaymentInfo":   {PixelEvent: "AddPaymentInfo", Weight: 4},
	"InitiateCheckout": {PixelEvent: "InitiateCheckout", Weight: 4},
	"dep":              {PixelEvent: "Purchase", Weight: 5},
	"Subscribe":        {PixelEvent: "Subscribe", Weight: 5},
	"StartTrial":       {PixelEvent: "StartTrial", Weight: 5},
}

// Expand returns the ordered sub-event sequence for a logical event.
// Events outside the funnel tables pass through as a single-element
// sequence. Callers consume the result strictly in order and stop at
// the first failed sub-event.
func Expand(event string) []string {
	if seq, ok := sequences[event]; ok {
		out := make([]string, len(seq))
		copy(out, seq)
		return out
	}
	return []string{event}
}

// Lookup returns the pixel stage for a sub-event. The second return
// is false when the sub-event has no Facebook mapping.
func Lookup(subEvent string) (Stage, bool) {
	st, ok := stages[subEvent]
	return st, ok
}
