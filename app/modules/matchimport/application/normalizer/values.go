package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var minutePattern = regexp.MustCompile(`^(\d+)\s*(?:\+\s*(\d+))?`)

// parseMinute reads 61, "61", "61'" or "90+3'" into minute and added time.
func parseMinute(v gjson.Result) (minute, added int) {
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), 0
	case gjson.String:
		m := minutePattern.FindStringSubmatch(strings.TrimSpace(v.String()))
		if m == nil {
			return 0, 0
		}
		minute, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			added, _ = strconv.Atoi(m[2])
		}
		return minute, added
	}
	return 0, 0
}

// intValue reads a number or numeric string.
func intValue(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), true
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.String()))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// floatValue reads a number, numeric string or percentage such as "55%".
func floatValue(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		s := strings.TrimSuffix(strings.TrimSpace(v.String()), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// stringValue returns a trimmed string for string or number scalars.
func stringValue(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number:
		return strings.TrimSpace(v.String())
	}
	return ""
}

// boolValue reads true, "true", "yes" or 1.
func boolValue(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Int() != 0
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.String())) {
		case "true", "yes", "y", "1":
			return true
		}
	}
	return false
}

// parseScoreline reads "2-1" or "2 : 1".
func parseScoreline(s string) (home, away int, ok bool) {
	s = strings.ReplaceAll(s, ":", "-")
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	a, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return h, a, true
}
