package board

import "github.com/google/uuid"

// IDFunc generates identifiers. The default joins a prefix with a UUIDv7,
// which is a millisecond timestamp followed by random bits.
type IDFunc func(prefix string) string

func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "_" + id.String()
}
