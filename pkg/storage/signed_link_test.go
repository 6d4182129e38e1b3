package storage

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSignerRoundTrip(t *testing.T) {
	signer := NewLinkSigner("secret", time.Minute)
	now := time.Date(2025, 7, 24, 9, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return now }

	token, expiresAt, err := signer.Sign("planner-backup_20250724T090000.000000000")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), expiresAt)

	name, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "planner-backup_20250724T090000.000000000", name)

	now = now.Add(time.Minute)
	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrLinkExpired)
}

func TestLinkSignerRejectsTampering(t *testing.T) {
	signer := NewLinkSigner("secret", time.Minute)
	token, _, err := signer.Sign("b1")
	require.NoError(t, err)

	other := NewLinkSigner("other", time.Minute)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrLinkInvalid)

	parts := strings.SplitN(token, ".", 2)
	renamed := base64.RawURLEncoding.EncodeToString([]byte("b2")) + "." + parts[1]
	_, err = signer.Verify(renamed)
	assert.ErrorIs(t, err, ErrLinkInvalid)

	for _, bad := range []string{"", "a.b", "a.b.c.d", "!!.1.abc"} {
		_, err = signer.Verify(bad)
		assert.ErrorIs(t, err, ErrLinkInvalid, bad)
	}
}

func TestLinkSignerRequiresSecretAndName(t *testing.T) {
	_, _, err := NewLinkSigner("", 0).Sign("b1")
	assert.Error(t, err)
	_, _, err = NewLinkSigner("secret", 0).Sign("")
	assert.Error(t, err)
}
