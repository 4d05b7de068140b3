package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var academicYearPattern = regexp.MustCompile(`^\d{4}/\d{4}$`)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ValidateAcademicYearName checks the YYYY/YYYY format and that the second
// year is exactly one after the first.
func ValidateAcademicYearName(name string) error {
	if !academicYearPattern.MatchString(name) {
		return NewValidationError("name", "academic year must be in format YYYY/YYYY")
	}
	parts := strings.Split(name, "/")
	first, err1 := strconv.Atoi(parts[0])
	second, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return NewValidationError("name", "invalid academic year format")
	}
	if second != first+1 {
		return NewValidationError("name", "second year must be exactly one year after the first")
	}
	return nil
}

// Ordinal formats a 1-based position with its English suffix (1st, 2nd,
// 3rd, 4th, 11th, 21st, ...).
func Ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
		suffix = "th"
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// FormatPosition renders a class position as "Nth of M".
func FormatPosition(position, cohortSize int) string {
	return fmt.Sprintf("%s of %d", Ordinal(position), cohortSize)
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	validRoles := []string{"owner", "admin", "teacher", "student"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return input
}
