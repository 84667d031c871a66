package domain

// Status represents the outcome of testing a single check.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
)

// String returns the string representation of the Status.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

var statusNames = [...]string{
	StatusPassed: "passed",
	StatusFailed: "failed",
}
