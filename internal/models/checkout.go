package models

import (
	"regexp"
	"strings"
)

// CheckoutForm holds the fake payment fields submitted at checkout. Nothing is charged.
type CheckoutForm struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

var (
	expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegex    = regexp.MustCompile(`^\d{3,4}$`)
)

// Normalize strips spaces and dashes from the card number and trims the other fields
func (f *CheckoutForm) Normalize() {
	f.CardNumber = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(f.CardNumber))
	f.ExpiryDate = strings.TrimSpace(f.ExpiryDate)
	f.CVV = strings.TrimSpace(f.CVV)
}

// Validate checks the payment fields are present and well formed
func (f *CheckoutForm) Validate() error {
	errs := ValidationErrors{}

	if f.CardNumber == "" {
		errs.Add("card_number", "card number is required")
	} else if !isDigits(f.CardNumber) || len(f.CardNumber) < 12 || len(f.CardNumber) > 19 {
		errs.Add("card_number", "card number must be 12 to 19 digits")
	}

	if f.ExpiryDate == "" {
		errs.Add("expiry_date", "expiry date is required")
	} else if !expiryRegex.MatchString(f.ExpiryDate) {
		errs.Add("expiry_date", "expiry date must be in MM/YY format")
	}

	if f.CVV == "" {
		errs.Add("cvv", "CVV is required")
	} else if !cvvRegex.MatchString(f.CVV) {
		errs.Add("cvv", "CVV must be 3 or 4 digits")
	}

	return errs.Err()
}

// MaskedCardNumber returns the card number with all but the last four digits hidden
func (f *CheckoutForm) MaskedCardNumber() string {
	if len(f.CardNumber) <= 4 {
		return f.CardNumber
	}
	return strings.Repeat("*", len(f.CardNumber)-4) + f.CardNumber[len(f.CardNumber)-4:]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
