package helpers

import (
	"encoding/hex"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the hex encoded BLAKE2b-256 sum of input.
func Digest(input string) string {
	return DigestBytes([]byte(input))
}

func DigestBytes(input []byte) string {
	sum := blake2b.Sum256(input)
	return hex.EncodeToString(sum[:])
}

func DigestReader(reader io.Reader) (string, error) {
	hash, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(hash, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ShortDigest is the first eight characters of Digest, used in source URLs and plan IDs.
func ShortDigest(input string) string {
	return Digest(input)[:8]
}
