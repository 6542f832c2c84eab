package otp

import (
	"errors"
	"testing"
)

func TestNumericCode(t *testing.T) {
	t.Run("GeneratesRequestedLength", func(t *testing.T) {
		g := NewNumericCode()

		for _, length := range []int{4, 6, 10} {
			code, err := g.Code(length)
			if err != nil {
				t.Fatalf("code generation failed for length %d: %v", length, err)
			}
			if len(code) != length {
				t.Fatalf("expected %d digits, got %q", length, code)
			}
			if !IsWellFormed(code, length) {
				t.Fatalf("generated code is not well formed: %q", code)
			}
		}
	})

	t.Run("RejectsOutOfRangeLength", func(t *testing.T) {
		g := NewNumericCode()

		for _, length := range []int{0, 3, 11} {
			if _, err := g.Code(length); !errors.Is(err, ErrInvalidLength) {
				t.Fatalf("expected ErrInvalidLength for %d, got %v", length, err)
			}
		}
	})

	t.Run("CodesVary", func(t *testing.T) {
		g := NewNumericCode()

		seen := map[string]struct{}{}
		for range 50 {
			code, err := g.Code(8)
			if err != nil {
				t.Fatalf("code generation failed: %v", err)
			}
			seen[code] = struct{}{}
		}

		// 50 draws from 10^8 possibilities colliding down to a handful would
		// point at a broken randomness source.
		if len(seen) < 45 {
			t.Fatalf("too many duplicate codes: %d distinct of 50", len(seen))
		}
	})
}

func TestIsWellFormed(t *testing.T) {
	cases := []struct {
		name   string
		code   string
		length int
		want   bool
	}{
		{"Valid", "042817", 6, true},
		{"TooShort", "0428", 6, false},
		{"TooLong", "04281799", 6, false},
		{"NonDigit", "04x817", 6, false},
		{"Empty", "", 6, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsWellFormed(tc.code, tc.length); got != tc.want {
				t.Fatalf("IsWellFormed(%q, %d) = %v, want %v", tc.code, tc.length, got, tc.want)
			}
		})
	}
}
