package utils

// Constants
const (
	DATE_LAYOUT     = "2006-01-02"
	TIME_LAYOUT     = "15:04:05"
	RATE_DATE       = "2 January 2006"
	FIELD_DELIMITER = "^"
	OND_SEPARATOR   = "-"
)
