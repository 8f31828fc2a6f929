package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, expiresAt, err := signer.Generate("memoire-1", "memoires/memoire-1.pdf")
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	docID, relPath, _, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "memoire-1", docID)
	require.Equal(t, "memoires/memoire-1.pdf", relPath)
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, _, err := signer.Generate("cours-1", "cours/cours-1.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token+"x", false)
	require.Error(t, err)

	other := NewSignedURLSigner("other-secret", time.Minute)
	_, _, _, err = other.Parse(token, false)
	require.Error(t, err)
}

func TestSignedURLExpiry(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond)

	token, _, err := signer.Generate("prog-1", "programmes/prog-1.pdf")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	_, relPath, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "programmes/prog-1.pdf", relPath)
}
