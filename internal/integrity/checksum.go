// Package integrity fingerprints data files so that a densify run can report
// exactly which input it read and which output it produced.
package integrity

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names the digest used by Checksum
const Algorithm = "blake2b-256"

// Digest is the fingerprint of a file
type Digest struct {
	Algorithm string `json:"algorithm"`
	Hex       string `json:"hex"`
	Size      int64  `json:"size"`
}

// String renders the digest as algorithm:hex
func (d Digest) String() string {
	return d.Algorithm + ":" + d.Hex
}

// Checksum computes the digest of the file at path
func Checksum(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer file.Close()

	return ChecksumReader(file)
}

// ChecksumReader computes the digest of everything read from r
func ChecksumReader(r io.Reader) (Digest, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to create hasher: %w", err)
	}

	size, err := io.Copy(hasher, r)
	if err != nil {
		return Digest{}, err
	}

	return Digest{
		Algorithm: Algorithm,
		Hex:       hex.EncodeToString(hasher.Sum(nil)),
		Size:      size,
	}, nil
}

// Verify reports whether the file at path matches expected. expected may be
// given with or without the algorithm prefix.
func Verify(path, expected string) (bool, error) {
	d, err := Checksum(path)
	if err != nil {
		return false, err
	}
	expected = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(expected)), Algorithm+":")
	return d.Hex == expected, nil
}
