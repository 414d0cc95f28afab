package accounting

import "errors"

// Sentinel error kinds for the accountant.
var (
	// ErrJournalMismatch reports an undo that does not match the latest posting.
	ErrJournalMismatch = errors.New("undo does not match latest posting")
	// ErrAlreadyHome reports a return home for an official who never left.
	ErrAlreadyHome = errors.New("official already home")
)
