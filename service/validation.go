package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrNameTooLong    = errors.New("name too long")
	ErrContentTooLong = errors.New("content too long")
	ErrEmptyCard      = errors.New("flashcard needs a front or a back")
)

// GitHub tokens are ASCII without whitespace; classic and fine-grained
// tokens both fit this.
var tokenRegex = regexp.MustCompile(`^[A-Za-z0-9_\-\.]+$`)

const (
	maxNameLength    = 200
	maxTokenLength   = 255
	maxContentLength = 1 << 20
	maxCardLength    = 10000
)

// normalizeName trims the name and falls back to def when nothing is left.
func normalizeName(name, def string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return def, nil
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func ValidateToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if len(token) > maxTokenLength {
		return errors.New("token too long")
	}
	if !tokenRegex.MatchString(token) {
		return errors.New("invalid token characters")
	}
	return nil
}

func ValidatePageContent(content string) error {
	if len(content) > maxContentLength {
		return ErrContentTooLong
	}
	return nil
}

func validateCard(front, back string) error {
	if strings.TrimSpace(front) == "" && strings.TrimSpace(back) == "" {
		return ErrEmptyCard
	}
	if len(front) > maxCardLength || len(back) > maxCardLength {
		return ErrContentTooLong
	}
	return nil
}
