package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/itamhq/itam-api/internal/core/domain"
)

// Column widths of the relational schema, in characters.
const (
	maxHostnameLen   = 128
	maxSerialLen     = 128
	maxModelLen      = 128
	maxLocationLen   = 128
	maxStatusLen     = 32
	maxUsernameLen   = 64
	maxFullnameLen   = 128
	maxEmailLen      = 128
	maxDepartmentLen = 64
	maxTitleLen      = 256
	maxPriorityLen   = 32

	// bcrypt only reads the first 72 bytes and x/crypto rejects longer input.
	maxPasswordBytes = 72
)

// lengthRule is one field checked by checkLengths.
type lengthRule struct {
	field string
	value *string
	max   int
}

// checkLengths fails on the first value longer than its column allows.
// Nil values are skipped.
func checkLengths(rules ...lengthRule) error {
	for _, r := range rules {
		if r.value != nil && utf8.RuneCountInString(*r.value) > r.max {
			return invalid(fmt.Sprintf("%s must be at most %d characters", r.field, r.max))
		}
	}
	return nil
}

func rule(field string, v string, max int) lengthRule {
	return lengthRule{field: field, value: &v, max: max}
}

func optRule(field string, o domain.Optional[string], max int) lengthRule {
	return lengthRule{field: field, value: o.Ptr(), max: max}
}

func ptrRule(field string, v *string, max int) lengthRule {
	return lengthRule{field: field, value: v, max: max}
}

func checkPassword(plaintext string) error {
	if len(plaintext) > maxPasswordBytes {
		return invalid(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
