package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercent(t *testing.T) {
	pct, ok := Progress{DownloadedBytes: 50, TotalBytes: 200}.Percent()
	assert.True(t, ok)
	assert.InDelta(t, 25.0, pct, 0.001)

	_, ok = Progress{DownloadedBytes: 50}.Percent()
	assert.False(t, ok)

	pct, ok = Progress{DownloadedBytes: 300, TotalBytes: 200}.Percent()
	assert.True(t, ok)
	assert.Equal(t, 100.0, pct)
}

func TestFetchError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &FetchError{URL: "https://a", Diagnostic: "ERROR: Unsupported URL: https://a\n", Err: cause}
	assert.Equal(t, "fetch https://a: ERROR: Unsupported URL: https://a", err.Error())
	assert.ErrorIs(t, err, cause)

	err = &FetchError{URL: "https://a", Err: cause}
	assert.Equal(t, "fetch https://a: exit status 1", err.Error())
}
