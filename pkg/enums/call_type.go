package enums

import "fmt"

// CallType says why a customer rang for staff.
type CallType string

const (
	CallTypeService CallType = "SERVICE"
	CallTypePayment CallType = "PAYMENT"
)

var validCallTypes = []CallType{
	CallTypeService,
	CallTypePayment,
}

// String implements fmt.Stringer.
func (c CallType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CallType.
func (c CallType) IsValid() bool {
	for _, candidate := range validCallTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCallType converts raw input into a CallType.
func ParseCallType(value string) (CallType, error) {
	for _, candidate := range validCallTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid call type %q", value)
}
