package validation

const (
	// Password requirements
	MinPasswordLength = 6
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength  = 100
	MaxEmailLength = 254
)
