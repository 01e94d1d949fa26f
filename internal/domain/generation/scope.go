package generation

import (
	"fmt"
	"strings"
	"time"
)

// Scope selects which generations statistics are computed over.
type Scope string

const (
	ScopeToday   Scope = "today"
	ScopeAllTime Scope = "all-time"
)

// ParseScope converts s into a Scope. An empty string means all-time.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all-time", "history":
		return ScopeAllTime, nil
	case "today":
		return ScopeToday, nil
	}
	return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, s)
}

// Window is a half-open [Since, Until) time range. Zero bounds are open.
type Window struct {
	Since time.Time
	Until time.Time
}

// Window returns the time range the scope covers relative to now. The
// calendar day is taken in now's location and the bounds are returned in UTC.
func (s Scope) Window(now time.Time) Window {
	if s != ScopeToday {
		return Window{}
	}
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return Window{
		Since: start.UTC(),
		Until: start.AddDate(0, 0, 1).UTC(),
	}
}
