package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MsgIncomeRequired is the user-facing message for a missing monthly
// income. The wording is fixed; the frontend matches on it.
const MsgIncomeRequired = "monthly income field is required"

// ValidateLeadInput checks a single record of the batch. A failing
// record is rejected on its own; it never aborts sibling records.
//
// Monthly income is required but any informed value counts as set:
// zero and negative incomes pass validation and simply rate COLD.
func ValidateLeadInput(input LeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Company) == "" {
		errors = append(errors, ValidationError{"company", "is required"})
	} else if len(input.Company) > 200 {
		errors = append(errors, ValidationError{"company", "must not exceed 200 characters"})
	}

	if input.MonthlyIncomeCents == nil {
		errors = append(errors, ValidationError{"monthly_income_cents", MsgIncomeRequired})
	}

	if strings.TrimSpace(input.Email) != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if strings.TrimSpace(input.Phone) != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")

	return len(cleaned) >= 10 && len(cleaned) <= 11
}

// joinMessages flattens the per-field errors into the single message
// reported back for the rejected record.
func joinMessages(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
