package agri

import "errors"

// Error taxonomy shared by all engines. NotFound and InvalidRange surface to
// the caller unretried; InsufficientData is recovered locally as a tagged
// partial result; UpstreamUnavailable is always recovered (enrichment is
// best-effort). Nothing here is fatal to the process.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidRange        = errors.New("value out of valid range")
	ErrInsufficientData    = errors.New("insufficient comparative data")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrInvariant           = errors.New("internal invariant violated")
)
