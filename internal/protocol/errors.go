package protocol

// Error codes carried by ErrorMsg. Invalid requests are rejected at the
// boundary with one of these; they never reach the simulation.
const (
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrUnknownStake  = "E_UNKNOWN_STAKE"
	ErrMatchNotFound = "E_MATCH_NOT_FOUND"
	ErrNotInMatch    = "E_NOT_IN_MATCH"
	ErrServerFull    = "E_SERVER_FULL"
	ErrRateLimit     = "E_RATE_LIMIT"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:    {},
	ErrUnknownStake:  {},
	ErrMatchNotFound: {},
	ErrNotInMatch:    {},
	ErrServerFull:    {},
	ErrRateLimit:     {},
}

func IsKnownCode(code string) bool {
	_, ok := knownCodes[code]
	return ok
}
