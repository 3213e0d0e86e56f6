package models

import "fmt"

// Outcome is the binary resolution of a betting line. Anything other than
// the two declared values is rejected at construction time by ParseOutcome.
type Outcome string

const (
	OutcomeOver  Outcome = "over"
	OutcomeUnder Outcome = "under"
)

// ParseOutcome converts a raw string into an Outcome
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeOver:
		return OutcomeOver, nil
	case OutcomeUnder:
		return OutcomeUnder, nil
	default:
		return "", fmt.Errorf("invalid outcome %q", s)
	}
}

// Valid reports whether o is one of the two declared outcomes
func (o Outcome) Valid() bool {
	return o == OutcomeOver || o == OutcomeUnder
}
