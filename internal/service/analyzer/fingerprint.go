package analyzer

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprinter produces a fixed-length digest of normalized text. The digest
// is used strictly as an equality shortcut for exact-duplicate detection; it
// is never used to rank similarity or to conclude inequality of meaning.
type Fingerprinter interface {
	Fingerprint(text string) string
	Algorithm() string
}

type fingerprinter struct {
	algorithm string
}

func NewFingerprinter(algorithm string) Fingerprinter {
	algorithm = strings.ToLower(algorithm)
	switch algorithm {
	case "md5", "sha256":
	default:
		algorithm = "sha256"
	}
	return &fingerprinter{algorithm: algorithm}
}

func (f *fingerprinter) Fingerprint(text string) string {
	switch f.algorithm {
	case "md5":
		sum := md5.Sum([]byte(text))
		return hex.EncodeToString(sum[:])
	default:
		sum := sha256.Sum256([]byte(text))
		return hex.EncodeToString(sum[:])
	}
}

func (f *fingerprinter) Algorithm() string {
	return f.algorithm
}
