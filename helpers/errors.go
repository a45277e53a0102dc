package helpers

import (
	"errors"

	"github.com/spektr-org/ridepulse/schema"
)

// Loader errors
var (
	// ErrMissingColumn is returned when the feed lacks Date or Booking Status.
	ErrMissingColumn = schema.ErrMissingColumn

	// ErrEmptyFeed is returned when the feed has no header row.
	ErrEmptyFeed = errors.New("empty booking feed")

	// Source errors
	ErrInvalidSource  = errors.New("invalid source")
	ErrSourceNotFound = errors.New("source not found")
)
