package pagination_test

import (
	"testing"
	"time"

	"github.com/orghub/orghub-backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	date := time.Date(2025, 7, 14, 9, 30, 0, 123456789, time.UTC)

	token := pagination.EncodeCursor(date, 42)
	gotDate, gotID, err := pagination.DecodeCursor(token)

	require.NoError(t, err)
	assert.True(t, date.Equal(gotDate))
	assert.Equal(t, int64(42), gotID)
}

func TestCursorRoundTrip_NonUTCInput(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	date := time.Date(2025, 7, 14, 9, 30, 0, 0, loc)

	token := pagination.EncodeCursor(date, 7)
	gotDate, _, err := pagination.DecodeCursor(token)

	require.NoError(t, err)
	assert.True(t, date.Equal(gotDate), "instant preserved across zones")
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := map[string]string{
		"not base64":   "%%%not-base64%%%",
		"no separator": "bm8tc2VwYXJhdG9y",                 // "no-separator"
		"bad date":     "bm90YWRhdGV8NQ==",                 // "notadate|5"
		"bad id":       "MjAyNS0wNy0xNFQwOTozMDowMFp8eA==", // "2025-07-14T09:30:00Z|x"
		"empty token":  "",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := pagination.DecodeCursor(token)
			assert.Error(t, err)
		})
	}
}
