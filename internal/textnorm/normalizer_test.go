package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace only",
			in:   "   \t\n  ",
			want: nil,
		},
		{
			name: "punctuation and digits stripped",
			in:   "salary: $90,000!!!",
			want: []string{"salary"},
		},
		{
			name: "stopwords removed",
			in:   "the managers and the team",
			want: []string{"manager", "team"},
		},
		{
			name: "domain stopwords removed",
			in:   "ive been there and im happy",
			want: []string{"happy"},
		},
		{
			name: "lowercased before filtering",
			in:   "The BONUS was GOOD",
			want: []string{"bonus", "good"},
		},
		{
			name: "lemmatized",
			in:   "working benefits",
			want: []string{"work", "benefit"},
		},
		{
			name: "only stopwords",
			in:   "i was there",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeJoined(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := n.NormalizeJoined("the managers and the team"); got != "manager team" {
		t.Errorf("NormalizeJoined = %q, want %q", got, "manager team")
	}
	if got := n.NormalizeJoined("!!!"); got != "" {
		t.Errorf("NormalizeJoined on punctuation = %q, want empty", got)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	const in = "managers provided excellent training opportunities"
	first := n.NormalizeJoined(in)
	for i := 0; i < 5; i++ {
		if got := n.NormalizeJoined(in); got != first {
			t.Fatalf("run %d: NormalizeJoined = %q, want %q", i, got, first)
		}
	}
}
