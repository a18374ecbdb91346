package valueobjects

import (
	"fmt"
	"strings"
)

// Strictness selects which invariant subset gates validation.
// Each level is a superset of the previous one.
type Strictness int

const (
	StrictnessMinimal Strictness = iota
	StrictnessStandard
	StrictnessStrict
)

var strictnessNames = map[Strictness]string{
	StrictnessMinimal:  "MINIMAL",
	StrictnessStandard: "STANDARD",
	StrictnessStrict:   "STRICT",
}

// ParseStrictness parses MINIMAL, STANDARD or STRICT, case-insensitively
func ParseStrictness(s string) (Strictness, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MINIMAL":
		return StrictnessMinimal, nil
	case "STANDARD":
		return StrictnessStandard, nil
	case "STRICT":
		return StrictnessStrict, nil
	default:
		return StrictnessMinimal, fmt.Errorf("unknown strictness %q", s)
	}
}

// String returns the canonical upper-case name
func (s Strictness) String() string {
	if name, ok := strictnessNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strictness(%d)", int(s))
}

// IsValid checks the value is one of the three levels
func (s Strictness) IsValid() bool {
	_, ok := strictnessNames[s]
	return ok
}

// Includes reports whether s covers every check of other
func (s Strictness) Includes(other Strictness) bool {
	return s >= other
}

// MarshalText implements encoding.TextMarshaler
func (s Strictness) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Strictness) UnmarshalText(text []byte) error {
	parsed, err := ParseStrictness(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
