package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateAccountID checks that id is a Ubisoft account id, which is a UUID
// in its canonical 36 character form.
func ValidateAccountID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "player id cannot be empty")
	}
	if len(id) != 36 {
		return New(ErrCodeNotFound, "invalid player id: %q", id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeNotFound, err, "invalid player id: %q", id)
	}
	return nil
}

// ValidateUsername rejects names that cannot be sent as a search term.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 64 characters
func ValidateUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeInvalidInput, "username cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "username too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "username contains invalid control characters")
		}
	}
	return nil
}

// ValidatePage rejects negative page numbers.
func ValidatePage(page int) error {
	if page < 0 {
		return New(ErrCodeInvalidInput, "page cannot be negative: %d", page)
	}
	return nil
}

// ValidateMatchmakingGroup accepts the two public matchmaking groups,
// 2 (3v3) and 3 (Royal).
func ValidateMatchmakingGroup(group int) error {
	if group != 2 && group != 3 {
		return New(ErrCodeInvalidMatchmakingGroup, "matchmaking group should be 2 or 3, got %d", group)
	}
	return nil
}

// ValidateTrophyNumber accepts trophy tiers 1 through 9.
func ValidateTrophyNumber(n int) error {
	if n < 1 || n > 9 {
		return New(ErrCodeInvalidTrophyNumber, "trophy number cannot be less than 1 or greater than 9: %d", n)
	}
	return nil
}
