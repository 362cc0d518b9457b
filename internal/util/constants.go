package util

const (
	DateFormat  = "2006-01-02"
	ClockFormat = "15:04"
	TimeFormat  = "2006-01-02 15:04:05"
)

// MinutesPerDay is the modulus for deriving exam durations; an end
// time earlier than the start time wraps past midnight.
const MinutesPerDay = 1440
