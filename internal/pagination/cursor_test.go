package pagination

import (
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.FixedZone("PKT", 5*3600))
	id := "01927c7e-8a3b-7c2d-9e4f-5a6b7c8d9e0f"

	encoded := EncodeCursor(id, ts)
	assert.Equal(t, encoded, url.QueryEscape(encoded), "cursor must be query-string safe")

	cursor, err := DecodeCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, id, cursor.LastID)
	assert.True(t, ts.Equal(cursor.Timestamp))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestDecodeCursor(t *testing.T) {
	cursor, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, cursor)

	invalid := []string{
		"not base64!",
		base64.RawURLEncoding.EncodeToString([]byte("no-separator")),
		base64.RawURLEncoding.EncodeToString([]byte("2026-03-01T09:30:00Z|")),
		base64.RawURLEncoding.EncodeToString([]byte("yesterday|abc")),
	}
	for _, c := range invalid {
		_, err := DecodeCursor(c)
		assert.ErrorIs(t, err, ErrInvalidCursor, c)
	}
}
