package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseHours converts an "H:M[:S]" string into fractional hours.
// An empty string is reported as absent (ok == false), never as zero.
func ParseHours(s string) (hours float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false, fmt.Errorf("invalid duration %q: too many components", s)
	}
	// Components are unsigned: strconv would otherwise accept "-0" or "+5".
	for _, p := range parts {
		if p == "" || p[0] < '0' || p[0] > '9' {
			return 0, false, fmt.Errorf("invalid duration %q: component %q must start with a digit", s, p)
		}
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false, fmt.Errorf("invalid duration %q: hours: %w", s, err)
	}

	m := 0
	if len(parts) > 1 {
		m, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, false, fmt.Errorf("invalid duration %q: minutes: %w", s, err)
		}
	}

	// Seconds may carry a fractional part ("00:30:15.5"); it is truncated.
	sec := 0
	if len(parts) > 2 {
		f, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid duration %q: seconds: %w", s, err)
		}
		sec = int(f)
	}

	total := h*3600 + m*60 + sec
	return float64(total) / 3600, true, nil
}

// FormatHours renders fractional hours as "HH:MM:SS", rounding to the nearest second.
func FormatHours(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	total := int64(math.Round(hours * 3600))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
