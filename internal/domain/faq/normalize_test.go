package faq

import "testing"

func TestNormalizeQuestion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "trims whitespace", in: "  Hello World  ", out: "hello world"},
		{name: "removes punctuation", in: "What's, the distance?", out: "what s the distance"},
		{name: "keeps accents", in: "¿Cómo estás?", out: "cómo estás"},
		{name: "collapses tabs", in: "reset\t\tmy   password", out: "reset my password"},
	}

	for _, tc := range cases {
		if got := normalizeQuestion(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestCanonicalTextFallsBackForPunctuation(t *testing.T) {
	if got := canonicalText(" ?! "); got != "?!" {
		t.Fatalf("expected punctuation to be kept, got %q", got)
	}
	if got := canonicalText("Hola!"); got != "hola" {
		t.Fatalf("expected normalized text, got %q", got)
	}
}
