package signing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	s := NewSigner("test-secret", "download-link")

	token, err := s.Issue("media/track-01.mp3")
	require.NoError(t, err)
	assert.NotContains(t, token, " ")

	got, err := s.Verify(token, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "media/track-01.mp3", got)
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner("test-secret", "download-link")

	issuedAt := time.Now()
	s.now = func() time.Time { return issuedAt }
	token, err := s.Issue("media/track-01.mp3")
	require.NoError(t, err)

	// just inside the window
	s.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	got, err := s.Verify(token, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "media/track-01.mp3", got)

	// just past it
	s.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = s.Verify(token, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	s := NewSigner("test-secret", "download-link")

	token, err := s.Issue("media/track-01.mp3")
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		flipped := "A"
		if token[i] == 'A' {
			flipped = "B"
		}
		tampered := token[:i] + flipped + token[i+1:]
		if tampered == token {
			continue
		}
		_, err := s.Verify(tampered, time.Hour)
		assert.ErrorIs(t, err, ErrInvalidToken, "position %d", i)
	}
}

func TestVerifyWrongSalt(t *testing.T) {
	download := NewSigner("test-secret", "download-link")
	session := NewSigner("test-secret", "user-session")

	token, err := download.Issue("media/track-01.mp3")
	require.NoError(t, err)

	_, err = session.Verify(token, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	a := NewSigner("secret-a", "download-link")
	b := NewSigner("secret-b", "download-link")

	token, err := a.Issue("media/track-01.mp3")
	require.NoError(t, err)

	_, err = b.Verify(token, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	s := NewSigner("test-secret", "download-link")

	for _, token := range []string{
		"",
		"not-a-token",
		"a.b.c",
		strings.Repeat("x", 512),
	} {
		_, err := s.Verify(token, time.Hour)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
