package util

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(s string) bool {
	if s == "" {
		return false
	}
	return emailRegex.MatchString(strings.TrimSpace(s))
}

func IsValidEnum(value string, validValues []string) bool {
	if value == "" {
		return true
	}
	for _, v := range validValues {
		if value == v {
			return true
		}
	}
	return false
}
