package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Student identifier pattern - 8 digits
	StudentIDPattern = `^\d{8}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	StudentID *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	StudentID: regexp.MustCompile(StudentIDPattern),
}

// IsValidEmail reports whether the value is an acceptable email address.
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsValidStudentID reports whether the value is an acceptable student identifier.
func IsValidStudentID(studentID string) bool {
	return CompiledPatterns.StudentID.MatchString(strings.TrimSpace(studentID))
}

// IsValidName reports whether the value is an acceptable display name.
func IsValidName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= NameMinLength && n <= NameMaxLength
}

// IsValidPassword reports whether the password satisfies the minimum policy.
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}
