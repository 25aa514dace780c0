package engine

import (
	"strings"

	"leadscout/internal/models"
)

// Provider names that imply a mobile number. Matched case-insensitively on
// the normalized provider string.
var mobileProviders = map[string]bool{
	"mtn":           true,
	"vodacom":       true,
	"cell c":        true,
	"cellc":         true,
	"rain":          true,
	"telkom mobile": true,
}

// Providers that imply a landline. Anything else (including "Unknown") is
// classified by number prefix instead.
var landlineProviders = map[string]bool{
	"telkom": true,
	"neotel": true,
}

// EffectivePhoneType returns the landline/mobile classification for a record:
// the explicit per-record override when set, otherwise a classification
// derived from the provider name and the number's leading digits.
func EffectivePhoneType(b *models.Business) string {
	if b.PhoneTypeOverride != nil && *b.PhoneTypeOverride != "" {
		return *b.PhoneTypeOverride
	}
	return ClassifyPhoneType(b.Provider, b.Phone)
}

// ClassifyPhoneType classifies by provider first, then by number prefix.
// South African numbering: 06x/07x/08x are mobile ranges, 01x-05x geographic.
func ClassifyPhoneType(provider, phone string) string {
	key := strings.ToLower(strings.TrimSpace(provider))
	if mobileProviders[key] {
		return models.PhoneTypeMobile
	}
	if landlineProviders[key] {
		return models.PhoneTypeLandline
	}

	digits := normalizeDigits(phone)
	if len(digits) >= 2 {
		switch digits[:2] {
		case "06", "07", "08":
			return models.PhoneTypeMobile
		}
	}
	return models.PhoneTypeLandline
}

// normalizeDigits strips formatting and converts the +27 country prefix to
// the domestic leading zero.
func normalizeDigits(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	digits := sb.String()
	if strings.HasPrefix(digits, "27") && len(digits) >= 11 {
		digits = "0" + digits[2:]
	}
	return digits
}
