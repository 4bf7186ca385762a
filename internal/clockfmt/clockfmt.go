package clockfmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse converts clock text like "7:38:09" or "00:00:00" to a duration.
// Hours are unbounded; minutes and seconds must stay below 60.
func Parse(text string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("parse clock %q: want H:MM:SS", text)
	}
	values := make([]int, 3)
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("parse clock %q: %w", text, err)
		}
		if value < 0 {
			return 0, fmt.Errorf("parse clock %q: negative component", text)
		}
		values[i] = value
	}
	if values[1] > 59 || values[2] > 59 {
		return 0, fmt.Errorf("parse clock %q: minutes and seconds must be below 60", text)
	}
	return time.Duration(values[0])*time.Hour +
		time.Duration(values[1])*time.Minute +
		time.Duration(values[2])*time.Second, nil
}

// Format renders a non-negative duration as HH:MM:SS, truncating below one
// second.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
