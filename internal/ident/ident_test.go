package ident

import "testing"

func TestNewShape(t *testing.T) {
	for range 1000 {
		code := New()
		if len(code) != 5 {
			t.Fatalf("expected 5 characters, got %q", code)
		}

		var letters, digits int
		for _, c := range code {
			switch {
			case c >= 'A' && c <= 'Z':
				letters++
			case c >= '0' && c <= '9':
				digits++
			default:
				t.Fatalf("unexpected character %q in code %q", c, code)
			}
		}
		if letters != 3 || digits != 2 {
			t.Fatalf("expected 3 letters and 2 digits, got %d/%d in %q", letters, digits, code)
		}
	}
}

// The letters and digits are shuffled together, so over enough samples a
// digit must show up in the first position.
func TestNewShuffles(t *testing.T) {
	for range 1000 {
		c := New()[0]
		if c >= '0' && c <= '9' {
			return
		}
	}
	t.Fatal("no code started with a digit after 1000 samples; shuffle looks broken")
}
