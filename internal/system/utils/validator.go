package utils

import (
	"fmt"
	"strings"
)

// ValidateClientID validates the client identifier forwarded by the gateway.
func ValidateClientID(clientID string) error {
	if clientID == "" {
		return fmt.Errorf("client ID missing in the request")
	}
	if len(clientID) > 255 {
		return fmt.Errorf("client ID too long (max 255 chars)")
	}
	return nil
}

// ValidateResourcePath checks that the path is present and splits into at
// least two non-empty leading segments ({consentType}/{consentId}).
func ValidateResourcePath(resourcePath string) error {
	if resourcePath == "" {
		return fmt.Errorf("resource path not found")
	}
	segments := strings.Split(resourcePath, "/")
	if len(segments) < 2 || segments[0] == "" {
		return fmt.Errorf("invalid resource path")
	}
	return nil
}

// ExtractConsentID returns the second segment of the resource path, which by
// convention carries the consent identifier.
func ExtractConsentID(resourcePath string) string {
	segments := strings.Split(resourcePath, "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[1]
}

// ExtractConsentType returns the first segment of the resource path.
func ExtractConsentType(resourcePath string) string {
	return strings.Split(resourcePath, "/")[0]
}

// ValidateConsentID validates consent ID format. The shape check runs before
// any persistence or extension call.
func ValidateConsentID(consentID string) error {
	if consentID == "" {
		return fmt.Errorf("consent ID is required")
	}
	if !IsValidUUID(consentID) {
		return fmt.Errorf("invalid consent ID found")
	}
	return nil
}
