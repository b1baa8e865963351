package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix(UUID_PREFIX_INVOICE)
	assert.True(t, strings.HasPrefix(id, "inv_"))
	assert.Greater(t, len(id), len("inv_"))

	assert.NotEqual(t, id, GenerateUUIDWithPrefix(UUID_PREFIX_INVOICE))
}

func TestGenerateShortInvoiceNumberNeverEmpty(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		n := GenerateShortInvoiceNumber()
		assert.True(t, strings.HasPrefix(n, "INV-"), "number %q", n)

		suffix := strings.TrimPrefix(n, "INV-")
		assert.NotEmpty(t, suffix, "number %q", n)
		assert.NotContains(t, suffix, "-")
		assert.NotContains(t, suffix, "_")
		assert.Equal(t, strings.ToUpper(suffix), suffix)

		seen[n] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
