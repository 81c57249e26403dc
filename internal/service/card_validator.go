package service

import (
	"cardvault/internal/errors"
)

// CardValidator validates primary account numbers.
type CardValidator struct{}

// NewCardValidator creates a new card validator.
func NewCardValidator() *CardValidator {
	return &CardValidator{}
}

// Validate accepts a PAN iff it consists of exactly sixteen decimal digits
// and satisfies the Luhn checksum.
func (v *CardValidator) Validate(pan string) error {
	if len(pan) != 16 {
		return errors.InvalidCardNumber("Card number must be 16 digits")
	}
	for _, r := range pan {
		if r < '0' || r > '9' {
			return errors.InvalidCardNumber("Card number must be 16 digits")
		}
	}
	if !validLuhn(pan) {
		return errors.InvalidCardNumber("Invalid card number")
	}
	return nil
}

// validLuhn checks the Luhn checksum: doubling every second digit from the
// right, summing the digits of products above 9.
func validLuhn(pan string) bool {
	sum := 0
	double := false
	for i := len(pan) - 1; i >= 0; i-- {
		digit := int(pan[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}
