package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"LST-abc"}}`)

	t.Run("accepts a correctly computed signature", func(t *testing.T) {
		sig := ComputeSignature(secret, body)
		assert.True(t, ValidateSignature(secret, body, sig))
	})

	t.Run("rejects a signature under the wrong secret", func(t *testing.T) {
		sig := ComputeSignature("sk_other", body)
		assert.False(t, ValidateSignature(secret, body, sig))
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		sig := ComputeSignature(secret, body)
		tampered := []byte(`{"event":"charge.success","data":{"reference":"LST-xyz"}}`)
		assert.False(t, ValidateSignature(secret, tampered, sig))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.False(t, ValidateSignature(secret, body, ""))
	})
}
