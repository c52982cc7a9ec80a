// Package device derives a human-readable description of the client
// that initiated a login, for audit logging.
package device

import (
	"github.com/mssola/useragent"
)

// Describe extracts a display name from a User-Agent string.
// Returns format: "Browser on OS" (e.g., "Chrome on macOS", "Safari on iOS").
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	// The parser echoes the raw string back as the browser name when it
	// recognizes nothing; never let that reach the audit log.
	if browser == "" || browser == userAgentString {
		browser = "Unknown Browser"
	}

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return browser + " on " + platform
		}
	}

	os := ua.OS()
	if os == "" {
		os = "Unknown OS"
	}

	return browser + " on " + os
}
