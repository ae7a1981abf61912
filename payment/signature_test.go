package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_MatchesIndependentDigest(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("test_secret"))
	mac.Write([]byte("order_ABC123|pay_XYZ789"))
	expected := hex.EncodeToString(mac.Sum(nil))

	got := Sign("order_ABC123", "pay_XYZ789", "test_secret")

	require.Len(t, got, 64)
	assert.Equal(t, expected, got)
}

func TestVerifySignature(t *testing.T) {
	sig := Sign("order_ABC123", "pay_XYZ789", "test_secret")

	assert.True(t, VerifySignature("order_ABC123", "pay_XYZ789", sig, "test_secret"))

	assert.False(t, VerifySignature("order_ABC124", "pay_XYZ789", sig, "test_secret"))
	assert.False(t, VerifySignature("order_ABC123", "pay_XYZ790", sig, "test_secret"))
	assert.False(t, VerifySignature("order_ABC123", "pay_XYZ789", sig, "other_secret"))
	assert.False(t, VerifySignature("order_ABC123", "pay_XYZ789", sig+"00", "test_secret"))
	assert.False(t, VerifySignature("order_ABC123", "pay_XYZ789", "", "test_secret"))
}
