package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveOffsetLimit(t *testing.T) {
	cases := []struct {
		name      string
		rawOffset string
		rawLimit  string
		expected  Filter
	}{
		{"defaults when absent", "", "", Filter{Limit: DefaultLimit, Offset: 0}},
		{"valid window", "10", "50", Filter{Limit: 50, Offset: 10}},
		{"negative offset falls back to zero", "-5", "0", Filter{Limit: DefaultLimit, Offset: 0}},
		{"zero limit falls back to default", "0", "0", Filter{Limit: DefaultLimit, Offset: 0}},
		{"limit clamped to maximum", "10", "5000", Filter{Limit: MaxLimit, Offset: 10}},
		{"limit at maximum kept", "", "1000", Filter{Limit: MaxLimit, Offset: 0}},
		{"garbage offset ignored", "abc", "30", Filter{Limit: 30, Offset: 0}},
		{"garbage limit ignored", "5", "abc", Filter{Limit: DefaultLimit, Offset: 5}},
		{"negative limit falls back to default", "", "-1", Filter{Limit: DefaultLimit, Offset: 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ResolveOffsetLimit(c.rawOffset, c.rawLimit, DefaultLimit, MaxLimit)
			if diff := cmp.Diff(c.expected, got); diff != "" {
				t.Error(diff)
			}
		})
	}
}
