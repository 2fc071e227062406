package protocol

import "fmt"

// Beneficiary is who receives the credits of a trial.
type Beneficiary string

const (
	Self     Beneficiary = "self"
	InGroup  Beneficiary = "in-group"
	OutGroup Beneficiary = "out-group"
)

func (b Beneficiary) Valid() bool {
	switch b {
	case Self, InGroup, OutGroup:
		return true
	}
	return false
}

// Label is the value written in the results file.
func (b Beneficiary) Label() string {
	switch b {
	case Self:
		return "Self"
	case InGroup:
		return "in-group"
	case OutGroup:
		return "out-group"
	}
	return string(b)
}

// ParseBeneficiary accepts both the config names and the results labels.
func ParseBeneficiary(s string) (Beneficiary, error) {
	switch s {
	case "self", "Self", "TI":
		return Self, nil
	case "in-group", "other", "Other", "OTRO":
		return InGroup, nil
	case "out-group", "group":
		return OutGroup, nil
	}
	return "", fmt.Errorf("unknown beneficiary %q", s)
}
