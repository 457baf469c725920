package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
	ContextKeySeller contextKey = "sellerObject"

	RememberMeCookieName = "remember_token"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// GenerateSlug derives the public catalogue slug from a shop name:
// lowercase, drop everything outside [a-z0-9 space hyphen], whitespace runs
// become single hyphens, hyphen runs collapse, no leading/trailing hyphen.
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// PhoneDigits strips everything but digits out of a phone number, the form
// wa.me expects in its path segment.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateRememberTokenParts returns a selector, a raw verifier and the
// combined cookie value "selector.verifier". Only a hash of the verifier is
// stored server-side.
func GenerateRememberTokenParts() (selector, verifierRaw, cookieValue string, err error) {
	selBytes := make([]byte, 16)
	if _, err = rand.Read(selBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate selector: %w", err)
	}
	verBytes := make([]byte, 32)
	if _, err = rand.Read(verBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate verifier: %w", err)
	}

	selector = hex.EncodeToString(selBytes)
	verifierRaw = hex.EncodeToString(verBytes)
	return selector, verifierRaw, selector + "." + verifierRaw, nil
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	formatted := make(map[string]string)
	for _, fieldErr := range errs {
		field := fieldErr.Field()
		switch fieldErr.Tag() {
		case "required":
			formatted[field] = fmt.Sprintf("%s est obligatoire.", field)
		case "min":
			formatted[field] = fmt.Sprintf("%s doit contenir au moins %s caractères.", field, fieldErr.Param())
		case "max":
			formatted[field] = fmt.Sprintf("%s doit contenir au plus %s caractères.", field, fieldErr.Param())
		case "e164":
			formatted[field] = fmt.Sprintf("%s doit être au format international (+...).", field)
		default:
			formatted[field] = fmt.Sprintf("%s n'est pas valide.", field)
		}
	}
	return formatted
}
