package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunID(t *testing.T) {
	id := GenerateRunID("quality_sum")
	assert.Regexp(t, regexp.MustCompile(`^quality-sum-[0-9a-f]{8}$`), id)

	assert.NotEqual(t, id, GenerateRunID("quality_sum"))
	assert.Regexp(t, regexp.MustCompile(`^run-[0-9a-f]{8}$`), GenerateRunID(" "))
}
