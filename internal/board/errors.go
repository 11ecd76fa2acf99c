package board

import "errors"

var (
	ErrNameRequired    = errors.New("name is required")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrMarkerNotFound  = errors.New("marker not found")
	ErrNotImage        = errors.New("not an image file")
	ErrBadDataURI      = errors.New("malformed data URI")
	ErrNotObject       = errors.New("not a JSON object")

	// ErrStorage wraps every persistence failure. The in-memory state has
	// already been changed when it is returned.
	ErrStorage = errors.New("error saving data, storage may be full")
)
