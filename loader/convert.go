package loader

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// truthy lists the accepted spellings of an available provider.
var truthy = map[string]bool{
	"1":    true,
	"true": true,
	"oui":  true,
	"yes":  true,
}

// ParseAvailability reports whether s is one of the accepted truthy tokens,
// ignoring case and surrounding whitespace. Anything else is false.
func ParseAvailability(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

func availabilityOf(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	default:
		return ParseAvailability(toText(v))
	}
}

func parseCoordinate(v any) (float64, error) {
	switch s := v.(type) {
	case nil:
		return 0, errMissingValue
	case string:
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, errMissingValue
		}
		return cast.ToFloat64E(s)
	case json.Number:
		return s.Float64()
	default:
		return cast.ToFloat64E(v)
	}
}

// toText renders a scalar field as text. JSON numbers keep their source
// digits.
func toText(v any) string {
	if n, ok := v.(json.Number); ok {
		return strings.TrimSpace(n.String())
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
