package core

import (
	"errors"

	"salesledger/internal/calendar"
)

// Validation faults. No state is mutated when one of these is returned.
var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidYear       = errors.New("invalid year")
	ErrInvalidPercentage = errors.New("invalid tax percentage")
	ErrInvalidDaysActive = errors.New("invalid days active")
	ErrNegativeValue     = errors.New("negative value")
	ErrInvalidKey        = calendar.ErrInvalidKey
)
