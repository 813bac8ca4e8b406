// Package idnum validates Israeli national identity numbers.
//
// An identity number is nine digits where the last digit is a checksum
// over the first eight. Numbers issued with fewer digits are written
// left-padded with zeros, so shorter inputs are padded before checking.
package idnum

import (
	"fmt"
	"strings"
)

// CheckDigit computes the control digit for an identity number.
//
// The input is trimmed and left-padded with zeros to nine characters.
// Returns an error if the padded string is not exactly nine digits.
// Each digit at an even position (0-indexed) is added as-is; each digit
// at an odd position is doubled, and 9 is subtracted when the doubled
// value has two digits. The control digit is (10 - total mod 10) mod 10.
// A result of 0 means the number's embedded check digit is correct.
func CheckDigit(id string) (int, error) {
	id = strings.TrimSpace(id)
	if len(id) < 9 {
		id = strings.Repeat("0", 9-len(id)) + id
	}
	if len(id) != 9 {
		return 0, fmt.Errorf("identity number %q: want 9 digits, have %d", id, len(id))
	}

	total := 0
	for i := 0; i < 9; i++ {
		c := id[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("identity number %q: non-digit %q at position %d", id, c, i)
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d >= 10 {
				d -= 9
			}
		}
		total += d
	}

	return (10 - total%10) % 10, nil
}

// Valid reports whether id is a well-formed identity number with a
// correct check digit.
func Valid(id string) bool {
	d, err := CheckDigit(id)
	return err == nil && d == 0
}
