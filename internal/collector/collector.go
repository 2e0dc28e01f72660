// Package collector enriches raw click submissions with the derived
// attribution fields: initiator fallback, click source inference, and
// the deduplication key.
package collector

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
)

// ErrSourceIdentifierMissing is returned when the click's resolved
// source requires a network identifier that was not supplied.
var ErrSourceIdentifierMissing = errors.New("click source not found in parameters")

// Enrich fills in the derived click fields in place.
//
// The caller's network address is used for initiator only when the
// submission carries none. Source is inferred once, in fbclid, gclid,
// ttclid priority order, and a caller-supplied key is kept untouched
// so re-submitted clicks stay correlated.
func Enrich(click *domain.Click, callerAddr string) error {
	if click.Initiator == "" {
		click.Initiator = callerAddr
	}

	if click.ClickSource == "" {
		click.ClickSource = detectSource(click)
	}

	if click.Key == "" {
		key, err := deriveKey(click)
		if err != nil {
			return err
		}
		click.Key = key
	}

	return nil
}

// detectSource infers the advertising network from whichever
// network identifier is present, in fixed priority order.
func detectSource(click *domain.Click) domain.ClickSource {
	switch {
	case click.Fbclid != "":
		return domain.SourceFacebook
	case click.Gclid != "":
		return domain.SourceGoogle
	case click.Ttclid != "":
		return domain.SourceTiktok
	default:
		return domain.SourceUnknown
	}
}

// deriveKey computes the dedup key: a hex SHA-256 of the network
// identifier matching the click's source, or of click_id when the
// source is unknown. Identical inputs always yield identical keys.
func deriveKey(click *domain.Click) (string, error) {
	switch click.ClickSource {
	case domain.SourceFacebook, domain.SourceGoogle, domain.SourceTiktok:
		id := click.SourceIdentifier()
		if id == "" {
			// Declared source without its identifier, e.g. click_source
			// set to facebook but no fbclid supplied.
			return "", ErrSourceIdentifierMissing
		}
		return hashHex(id), nil
	default:
		return hashHex(click.ClickID), nil
	}
}

func hashHex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
