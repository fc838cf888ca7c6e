package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprinter_Equality(t *testing.T) {
	f := NewFingerprinter("sha256")

	assert.Equal(t, f.Fingerprint("identical text"), f.Fingerprint("identical text"))
	assert.NotEqual(t, f.Fingerprint("identical text"), f.Fingerprint("different text"))
}

func TestFingerprinter_Algorithms(t *testing.T) {
	assert.Len(t, NewFingerprinter("sha256").Fingerprint("x"), 64)
	assert.Len(t, NewFingerprinter("md5").Fingerprint("x"), 32)
}

func TestFingerprinter_UnknownAlgorithmDefaultsToSHA256(t *testing.T) {
	f := NewFingerprinter("whirlpool")

	assert.Equal(t, "sha256", f.Algorithm())
	assert.Len(t, f.Fingerprint("x"), 64)
}
