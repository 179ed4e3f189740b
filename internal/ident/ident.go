// Package ident produces the short board codes handed out to users.
package ident

import "math/rand/v2"

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

// New returns a 5-character code: 3 uppercase letters and 2 digits,
// randomly interleaved. No uniqueness is guaranteed here; callers must
// enforce it against storage and retry on collision.
func New() string {
	code := make([]byte, 5)
	for i := range 3 {
		code[i] = letters[rand.IntN(len(letters))]
	}
	for i := 3; i < 5; i++ {
		code[i] = digits[rand.IntN(len(digits))]
	}
	rand.Shuffle(len(code), func(i, j int) {
		code[i], code[j] = code[j], code[i]
	})
	return string(code)
}
