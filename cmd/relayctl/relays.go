package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dernate/relaycontrol"
)

// relayList collects 1-based relay numbers from the command line and
// stores them zero-based. The flag may be repeated.
type relayList []relaycontrol.RelayNumber

func (l *relayList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, r := range *l {
		parts[i] = strconv.Itoa(int(r) + 1)
	}
	return strings.Join(parts, ",")
}

func (l *relayList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("relay %q is not a number", part)
		}
		if n < 1 || n > relaycontrol.RelayCount {
			return fmt.Errorf("relay %d out of range 1-%d", n, relaycontrol.RelayCount)
		}
		*l = append(*l, relaycontrol.RelayNumber(n-1))
	}
	return nil
}
