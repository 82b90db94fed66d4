package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ticketa/eventpay/internal/core/domain"
)

func TestNewReference(t *testing.T) {
	t.Run("namespaced by kind", func(t *testing.T) {
		lst := domain.NewReference(domain.KindListing, "abc123def456")
		reg := domain.NewReference(domain.KindRegistration, "abc123def456")

		assert.True(t, strings.HasPrefix(lst, "LST-"))
		assert.True(t, strings.HasPrefix(reg, "REG-"))
	})

	t.Run("embeds resource id prefix", func(t *testing.T) {
		ref := domain.NewReference(domain.KindListing, "abcdef1234567890")
		assert.Contains(t, ref, "abcdef12")
	})

	t.Run("no collisions across many calls", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 10000; i++ {
			ref := domain.NewReference(domain.KindListing, "same-resource")
			assert.False(t, seen[ref], "collision: %s", ref)
			seen[ref] = true
		}
	})
}

func TestKindFromReference(t *testing.T) {
	kind, ok := domain.KindFromReference("LST-abc-123-ff")
	assert.True(t, ok)
	assert.Equal(t, domain.KindListing, kind)

	kind, ok = domain.KindFromReference("REG-abc-123-ff")
	assert.True(t, ok)
	assert.Equal(t, domain.KindRegistration, kind)

	_, ok = domain.KindFromReference("ORD-abc")
	assert.False(t, ok)
}
