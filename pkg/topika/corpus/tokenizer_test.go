package corpus

import (
	"strings"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tok := NewTokenizer([]string{"the", "a", "and", "of"})

	tokens := tok.Tokenize("The quick brown fox jumps over the lazy dog")

	want := []string{"quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizeTable(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "case folding",
			in:   "BERT Transformer",
			want: []string{"bert", "transformer"},
		},
		{
			name: "hyphenated compounds kept",
			in:   "state-of-the-art machine-learning x-ray",
			want: []string{"state-of-the-art", "machine-learning", "x-ray"},
		},
		{
			name: "leading and trailing hyphens stripped",
			in:   "-patch-would-ms-ext gpt- normal",
			want: []string{"patch-would-ms-ext", "gpt", "normal"},
		},
		{
			name: "hyphen runs collapsed",
			in:   "test--double triple---dash",
			want: []string{"test-double", "triple-dash"},
		},
		{
			name: "pure numerics dropped, mixed kept",
			in:   "released 2023 gpt-4 utf-8",
			want: []string{"released", "gpt-4", "utf-8"},
		},
		{
			name: "punctuation is a separator",
			in:   "hello! world? test... end.",
			want: []string{"hello", "world", "test", "end"},
		},
		{
			name: "single letters dropped",
			in:   "a b c topic model",
			want: []string{"topic", "model"},
		},
		{
			name: "unicode letters",
			in:   "café résumé",
			want: []string{"café", "résumé"},
		},
		{
			name: "whitespace only",
			in:   "   \t\n\r   ",
			want: nil,
		},
		{
			name: "hyphen-only runs dropped",
			in:   "normal - -- ---- text",
			want: []string{"normal", "text"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok := NewTokenizer(nil)
			got := tok.Tokenize(tc.in)
			if !equalTokens(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestStopwordsCaseInsensitive(t *testing.T) {
	tok := NewTokenizer([]string{"THE", "A"})

	tokens := tok.Tokenize("The cat and the dog")
	for _, w := range tokens {
		if w == "the" {
			t.Errorf("stopword %q should be filtered regardless of case", w)
		}
	}
}

func TestAddRemoveStopword(t *testing.T) {
	tok := NewTokenizer([]string{"the"})

	if got := tok.Tokenize("the cat"); !equalTokens(got, []string{"cat"}) {
		t.Fatalf("Tokenize = %v, want [cat]", got)
	}

	tok.RemoveStopword("the")
	if got := tok.Tokenize("the cat"); len(got) != 2 {
		t.Errorf("after RemoveStopword: Tokenize = %v, want 2 tokens", got)
	}

	tok.AddStopword("the")
	if !tok.IsStopword("The") {
		t.Error("IsStopword(The) = false after AddStopword")
	}
	if got := tok.Tokenize("the cat"); !equalTokens(got, []string{"cat"}) {
		t.Errorf("after AddStopword: Tokenize = %v, want [cat]", got)
	}
}

func TestSetMinTokenLen(t *testing.T) {
	tok := NewTokenizer(nil)
	tok.SetMinTokenLen(4)

	got := tok.Tokenize("tiny dog enormous beast")
	want := []string{"tiny", "enormous", "beast"}
	if !equalTokens(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeLongWord(t *testing.T) {
	tok := NewTokenizer(nil)

	long := strings.Repeat("verylongword", 20)
	got := tok.Tokenize("normal " + long + " text")
	if len(got) != 3 {
		t.Errorf("Tokenize = %d tokens, want 3", len(got))
	}
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
