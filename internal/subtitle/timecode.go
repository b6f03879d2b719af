package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	millisPerSecond = 1000
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
)

// millisecond separator the serializer emits for a format
func separator(format Format) byte {
	if format == FormatVTT {
		return '.'
	}
	return ','
}

// ParseTimecode converts "HH:MM:SS,mmm" or "MM:SS.mmm" to seconds. Either
// millisecond separator is accepted for both formats so cues pasted between
// formats still parse. The result is rounded to whole milliseconds.
func ParseTimecode(text string, format Format) (float64, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return 0, fmt.Errorf("empty %s timecode", format)
	}

	clock, fraction := value, ""
	if idx := strings.LastIndexAny(value, ",."); idx >= 0 {
		clock, fraction = value[:idx], value[idx+1:]
	}

	fields := strings.Split(clock, ":")
	if len(fields) != 2 && len(fields) != 3 {
		return 0, fmt.Errorf("invalid %s timecode %q", format, value)
	}

	numbers := make([]int, len(fields))
	for i, field := range fields {
		n, err := parseDigits(field)
		if err != nil {
			return 0, fmt.Errorf("invalid %s timecode %q: %w", format, value, err)
		}
		numbers[i] = n
	}

	var hours, minutes, seconds int
	if len(numbers) == 3 {
		hours, minutes, seconds = numbers[0], numbers[1], numbers[2]
		if minutes >= 60 {
			return 0, fmt.Errorf("invalid %s timecode %q: minutes out of range", format, value)
		}
	} else {
		minutes, seconds = numbers[0], numbers[1]
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("invalid %s timecode %q: seconds out of range", format, value)
	}

	var frac float64
	if fraction != "" {
		n, err := parseDigits(fraction)
		if err != nil {
			return 0, fmt.Errorf("invalid %s timecode %q: %w", format, value, err)
		}
		frac = float64(n) / math.Pow10(len(fraction))
	}

	total := float64(hours*3600+minutes*60+seconds) + frac
	return RoundMillis(total), nil
}

// FormatTimecode renders seconds as a zero padded timecode using the format's
// separator. Rounding to 1000ms carries into seconds, minutes and hours.
func FormatTimecode(seconds float64, format Format) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int64(math.Round(seconds * millisPerSecond))

	hours := total / millisPerHour
	minutes := total % millisPerHour / millisPerMinute
	secs := total % millisPerMinute / millisPerSecond
	millis := total % millisPerSecond

	return fmt.Sprintf(
		"%02d:%02d:%02d%c%03d",
		hours,
		minutes,
		secs,
		separator(format),
		millis,
	)
}

// RoundMillis rounds seconds to 3 decimal places.
func RoundMillis(seconds float64) float64 {
	return math.Round(seconds*millisPerSecond) / millisPerSecond
}

func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty field")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit in %q", s)
		}
	}
	return strconv.Atoi(s)
}
