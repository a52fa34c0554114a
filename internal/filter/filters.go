package filter

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 1000
)

type Filter struct {
	Limit  int
	Offset int64
}

// Metadata carries the total result count alongside a page of items,
// independent of the pagination window.
type Metadata struct {
	TotalCount int64
}

// ResolveOffsetLimit turns raw query-string values into a usable pagination
// window. It never fails: unparsable or negative offsets fall back to 0,
// unparsable or non-positive limits fall back to defaultLimit, and limits
// above maxLimit are clamped down. Listing endpoints stay answerable no
// matter what the client sends.
func ResolveOffsetLimit(rawOffset, rawLimit string, defaultLimit, maxLimit int) Filter {
	var offset int64
	if rawOffset != "" {
		if parsed, err := strconv.ParseInt(rawOffset, 10, 64); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	limit := defaultLimit
	if rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			switch {
			case parsed < 1:
				limit = defaultLimit
			case parsed > maxLimit:
				limit = maxLimit
			default:
				limit = parsed
			}
		}
	}

	return Filter{
		Limit:  limit,
		Offset: offset,
	}
}
