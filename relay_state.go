package relaycontrol

import (
	"fmt"
	"strconv"
	"strings"
)

// Toggle returns the opposite state.
func (s RelayState) Toggle() RelayState {
	if s == On {
		return Off
	}
	return On
}

// AsBool reports On as true and Off as false.
func (s RelayState) AsBool() bool {
	return s == On
}

func (s RelayState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "RelayState(" + strconv.Itoa(int(s)) + ")"
}

// Set implements flag.Value using LenientStateParse.
func (s *RelayState) Set(text string) error {
	*s = LenientStateParse(text)
	return nil
}

func (s RelayState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RelayState) UnmarshalText(text []byte) error {
	state, err := StrictStateParse(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// LenientStateParse converts text to a RelayState and never fails.
// The rules are tried in order:
//   - "ON" / "OFF" in any case
//   - a 32 bit decimal integer, positive is On, anything else Off
//   - "true" / "false" in any case
//
// Anything else is Off.
func LenientStateParse(text string) RelayState {
	state, _ := parseState(text)
	return state
}

// StrictStateParse applies the same rules as LenientStateParse but returns
// ErrInvalidState instead of falling back to Off.
func StrictStateParse(text string) (RelayState, error) {
	state, ok := parseState(text)
	if !ok {
		return Off, fmt.Errorf("%w: %q", ErrInvalidState, text)
	}
	return state, nil
}

func parseState(text string) (RelayState, bool) {
	switch {
	case strings.EqualFold(text, "on"):
		return On, true
	case strings.EqualFold(text, "off"):
		return Off, true
	}
	if i, err := strconv.ParseInt(text, 10, 32); err == nil {
		if i > 0 {
			return On, true
		}
		return Off, true
	}
	switch {
	case strings.EqualFold(text, "true"):
		return On, true
	case strings.EqualFold(text, "false"):
		return Off, true
	}
	return Off, false
}
