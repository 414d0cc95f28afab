package league

import "errors"

// Sentinel error kinds for the league model. These allow errors.Is/As from callers.
var (
	ErrUnknownCity        = errors.New("unknown city")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrNoFlight           = errors.New("no flight between cities")
	ErrDuplicate          = errors.New("duplicate record")
	ErrInvalidCapability  = errors.New("invalid official capability")
	ErrLedgerEntryMissing = errors.New("ledger entry missing")
	ErrNotAssigned        = errors.New("official not assigned to game")
	ErrEmptyTimeline      = errors.New("travel timeline cannot be emptied")
	ErrPresenceMismatch   = errors.New("city presence index out of sync")
)
