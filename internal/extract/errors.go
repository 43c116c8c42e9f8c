package extract

import "errors"

// Extraction failures form a closed set so callers can match them explicitly
// instead of inspecting message text.
var (
	// ErrInvalidURL reports a source URL missing a scheme or host.
	ErrInvalidURL = errors.New("invalid URL: a scheme and host are required")

	// ErrParse reports HTML that could not be read at all. The tolerant
	// parser repairs broken markup, so this only fires on reader failures.
	ErrParse = errors.New("could not parse the page HTML")
)
