// Package timeutil parses the human-friendly offsets used for reminders.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]*)`)
	unitMap        = map[string]time.Duration{
		"":        time.Minute,
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hrs":     time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
		"d":       24 * time.Hour,
		"day":     24 * time.Hour,
		"days":    24 * time.Hour,
		"w":       7 * 24 * time.Hour,
		"wk":      7 * 24 * time.Hour,
		"week":    7 * 24 * time.Hour,
		"weeks":   7 * 24 * time.Hour,
	}
)

// ParseOffset parses a reminder offset such as "15", "15m", "1h30m" or
// "2 days" and returns it in whole minutes together with its compact label.
// A bare number is read as minutes. Zero is allowed and means "in the last
// minute before the start".
func ParseOffset(input string) (int, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return 0, "", fmt.Errorf("empty reminder offset")
	}

	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := segmentPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 || matches[0] == "" {
			return 0, "", fmt.Errorf("invalid offset segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 32)
		if err != nil {
			return 0, "", fmt.Errorf("invalid offset value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported offset unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = strings.TrimSpace(remaining[len(matches[0]):])
	}

	minutes := int(total / time.Minute)
	return minutes, FormatOffset(minutes), nil
}

// FormatOffset renders whole minutes using week/day/hour/minute tokens.
func FormatOffset(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}

	units := []struct {
		label string
		value int
	}{
		{"w", 7 * 24 * 60},
		{"d", 24 * 60},
		{"h", 60},
		{"m", 1},
	}

	var parts []string
	remaining := minutes
	for _, u := range units {
		if remaining < u.value {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		parts = append(parts, fmt.Sprintf("%d%s", count, u.label))
	}
	return strings.Join(parts, "")
}
