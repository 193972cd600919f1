package entities

import "testing"

func TestNumberToWords(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "zero"},
		{7, "seven"},
		{19, "nineteen"},
		{20, "twenty"},
		{42, "forty-two"},
		{100, "one hundred"},
		{210, "two hundred and ten"},
		{999, "nine hundred and ninety-nine"},
		{1000, "one thousand"},
		{1042, "one thousand and forty-two"},
		{125000, "one hundred and twenty-five thousand"},
		{2000001, "two million and one"},
		{-5, ""},
	}
	for _, tc := range cases {
		if got := NumberToWords(tc.n); got != tc.want {
			t.Fatalf("NumberToWords(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestWordsMatch(t *testing.T) {
	cases := []struct {
		words string
		votes int64
		want  bool
	}{
		{"", 42, true},
		{"   ", 42, true},
		{"forty-two", 42, true},
		{"Forty Two", 42, true},
		{"two hundred ten", 210, true},
		{"two hundred and ten", 210, true},
		{"forty-three", 42, false},
		{"twelve", 13, false},
	}
	for _, tc := range cases {
		if got := WordsMatch(tc.words, tc.votes); got != tc.want {
			t.Fatalf("WordsMatch(%q, %d) = %v, want %v", tc.words, tc.votes, got, tc.want)
		}
	}
}
