package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// files are hashed through a buffer of this size so memory stays bounded
// regardless of file size
const ChunkSize = 64 * 1024

func Sha256(bytes []byte) []byte {
	h := sha256.Sum256(bytes)
	return h[:]
}

func HexEncodeStr(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

func NewSha256() hash.Hash {
	return sha256.New()
}

// FileSha256 returns the hex encoded sha256 digest of the file at filePath.
func FileSha256(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("could not open %s for hashing: %w", filePath, err)
	}
	defer file.Close()

	h := NewSha256()
	buf := make([]byte, ChunkSize)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("could not read %s for hashing: %w", filePath, err)
		}
	}
	return HexEncodeStr(h.Sum(nil)), nil
}
