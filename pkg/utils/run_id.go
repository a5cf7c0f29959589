package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable evaluation run ID.
// Format: {policy}-{8charHexUUID}
//
// Example:
//   - Input: policy="quality_sum"
//   - Output: "quality-sum-a3f8e2b1"
func GenerateRunID(policy string) string {
	prefix := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(policy)), "_", "-")
	if prefix == "" {
		prefix = "run"
	}
	return prefix + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
