package registry

import "strings"

// Policy is the closed set of validation policies a field can declare.
type Policy int

const (
	// Presence: the field exists with any non-zero value.
	Presence Policy = iota
	// PresenceContent: the field is a non-empty string after trimming.
	PresenceContent
	// PresenceType: the field is a materialized value of the declared kind
	// (for arrays: non-nil, possibly empty).
	PresenceType
	// PresenceTypeLength: like PresenceType, plus the array must be
	// non-empty whenever work was expected for it.
	PresenceTypeLength
)

// Kind declares the value shape type policies check against.
type Kind int

const (
	KindString Kind = iota
	KindArray
	KindNumber
)

func (p Policy) String() string {
	switch p {
	case Presence:
		return "presence"
	case PresenceContent:
		return "presence+content"
	case PresenceType:
		return "presence+type"
	case PresenceTypeLength:
		return "presence+type+length"
	default:
		return "unknown"
	}
}

// ValidString reports whether a string value satisfies the policy.
func ValidString(p Policy, value string) bool {
	switch p {
	case PresenceContent:
		return strings.TrimSpace(value) != ""
	default:
		return value != ""
	}
}

// ValidNumber reports whether a numeric value satisfies the policy. Absent
// numbers serialize as zero, so presence means non-zero.
func ValidNumber(_ Policy, value float64) bool {
	return value != 0
}

// ValidStringSlice reports whether a reference-id list satisfies the policy.
// expected is true when the mask said work was expected for the list.
func ValidStringSlice(p Policy, value []string, expected bool) bool {
	if value == nil {
		return false
	}
	if p == PresenceTypeLength && expected && len(value) == 0 {
		return false
	}
	return true
}

// ValidSliceLen reports whether a generic array value satisfies the policy,
// given the array's nil-ness and length.
func ValidSliceLen(p Policy, isNil bool, length int, expected bool) bool {
	if isNil {
		return false
	}
	if p == PresenceTypeLength && expected && length == 0 {
		return false
	}
	return true
}
