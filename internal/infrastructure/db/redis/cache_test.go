package redis

import "testing"

func TestCacheKey(t *testing.T) {
	if got := cacheKey("fish-prices:all"); got != "fishprice:cache:fish-prices:all" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestPrefixPattern(t *testing.T) {
	cases := []struct {
		prefix string
		want   string
	}{
		{"fish-prices:", `fishprice:cache:fish\-prices:*`},
		{"fish-types", `fishprice:cache:fish\-types*`},
		{"a*b?[c]", `fishprice:cache:a\*b\?\[c\]*`},
		{`back\slash`, `fishprice:cache:back\\slash*`},
	}
	for _, tc := range cases {
		if got := prefixPattern(tc.prefix); got != tc.want {
			t.Fatalf("prefixPattern(%q) = %q, want %q", tc.prefix, got, tc.want)
		}
	}
}
