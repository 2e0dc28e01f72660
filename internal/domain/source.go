package domain

// ClickSource identifies the advertising network a click originated from.
type ClickSource string

const (
	// SourceFacebook marks clicks carrying an fbclid.
	SourceFacebook ClickSource = "facebook"
	// SourceGoogle marks clicks carrying a gclid.
	SourceGoogle ClickSource = "google"
	// SourceTiktok marks clicks carrying a ttclid.
	SourceTiktok ClickSource = "tiktok"
	// SourceUnknown marks clicks with no recognizable network identifier.
	SourceUnknown ClickSource = "unknown"
)
