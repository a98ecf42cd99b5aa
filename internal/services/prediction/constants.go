package prediction

import "time"

// History paging
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// MaxStoredAge bounds the age column. The scorer accepts any age and the
// raw value is kept in Inputs.
const MaxStoredAge = 150

// Cache durations
const (
	DefaultHistoryCacheTTL = 5 * time.Minute
)
