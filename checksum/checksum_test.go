package checksum

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSha256(t *testing.T) {
	dir := t.TempDir()

	t.Run("MatchesInMemoryDigest", func(t *testing.T) {
		// larger than one chunk so the read loop runs more than once
		content := bytes.Repeat([]byte("fftpeg"), ChunkSize)
		path := filepath.Join(dir, "big.bin")
		require.NoError(t, os.WriteFile(path, content, 0644))

		digest, err := FileSha256(context.Background(), path)
		assert.NoError(t, err)
		assert.Equal(t, HexEncodeStr(Sha256(content)), digest)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := filepath.Join(dir, "empty.bin")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		digest, err := FileSha256(context.Background(), path)
		assert.NoError(t, err)
		assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", digest)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := FileSha256(context.Background(), filepath.Join(dir, "nope"))
		assert.Error(t, err)
	})

	t.Run("Cancelled", func(t *testing.T) {
		path := filepath.Join(dir, "c.bin")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := FileSha256(ctx, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
