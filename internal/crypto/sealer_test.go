package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer("correct horse battery staple")
	require.NoError(t, err)

	plain := []byte(`{"flashcards":{}}`)
	sealed, err := s.Seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestSealer_SamePassphraseOpensAcrossInstances(t *testing.T) {
	// two devices configured with the same passphrase
	first, err := NewSealer("shared secret")
	require.NoError(t, err)
	second, err := NewSealer("shared secret")
	require.NoError(t, err)

	sealed, err := first.Seal([]byte("payload"))
	require.NoError(t, err)

	opened, err := second.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), opened)
}

func TestSealer_WrongPassphrase(t *testing.T) {
	sealer, err := NewSealer("right")
	require.NoError(t, err)
	other, err := NewSealer("wrong")
	require.NoError(t, err)

	sealed, err := sealer.Seal([]byte("payload"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	require.ErrorIs(t, err, ErrSealedPayload)
}

func TestSealer_TamperedCiphertext(t *testing.T) {
	s, err := NewSealer("passphrase")
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0x01

	_, err = s.Open(sealed)
	require.ErrorIs(t, err, ErrSealedPayload)
}

func TestSealer_BlobTooShort(t *testing.T) {
	s, err := NewSealer("passphrase")
	require.NoError(t, err)

	_, err = s.Open([]byte("short"))
	require.ErrorIs(t, err, ErrSealedPayload)
}

func TestNewSealer_EmptyPassphrase(t *testing.T) {
	_, err := NewSealer("")
	require.Error(t, err)
}

func TestSealer_NoncesDiffer(t *testing.T) {
	s, err := NewSealer("passphrase")
	require.NoError(t, err)

	first, err := s.Seal([]byte("payload"))
	require.NoError(t, err)
	second, err := s.Seal([]byte("payload"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
