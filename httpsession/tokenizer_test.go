package httpsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitValues(t *testing.T) {
	cases := []struct {
		name string
		txt  string
		sep  string
		want []string
	}{
		{"plain", "a,b,c", ",", []string{"a", "b", "c"}},
		{"empty", "", ",", []string{""}},
		{"trailing separator", "a,", ",", []string{"a", ""}},
		{"any separator", "a;b,c", ",;", []string{"a", "b", "c"}},
		{"quoted separator", `"a,b",c`, ",", []string{`"a,b"`, "c"}},
		{"bracketed separator", "<x,y>;rel=a", ";", []string{"<x,y>", "rel=a"}},
		{"escaped quote", `"a\",b",c`, ",", []string{`"a\",b"`, "c"}},
		{"unterminated span", `"abc,d`, ",", []string{`"abc,d`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitHeaderValues(tc.txt, tc.sep))
		})
	}
}

func TestSplitValuesCustomQuotes(t *testing.T) {
	got := SplitValues("(a b) c [d e]", " ", "([", ")]")
	assert.Equal(t, []string{"(a b)", "c", "[d e]"}, got)
}
