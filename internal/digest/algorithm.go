package digest

import (
	"crypto/md5"  // #nosec G501 -- selectable legacy digest family
	"crypto/sha1" // #nosec G505 -- selectable legacy digest family
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RMD160 is one of the offered families
	"golang.org/x/crypto/sha3"
)

// Algorithm is a digest family. The set is closed: values outside the
// constants below are rejected by ParseAlgorithm.
type Algorithm uint8

const (
	Unknown Algorithm = iota
	MD5
	SHA1
	SHA2
	SHA384
	SHA512
	RMD160
	SHA3
	BLAKE2B
)

// Default is the family used when none is configured.
const Default = SHA2

var algorithmNames = [...]string{
	Unknown: "unknown",
	MD5:     "MD5",
	SHA1:    "SHA1",
	SHA2:    "SHA2",
	SHA384:  "SHA384",
	SHA512:  "SHA512",
	RMD160:  "RMD160",
	SHA3:    "SHA3",
	BLAKE2B: "BLAKE2B",
}

var algorithmAliases = map[string]Algorithm{
	"sha256":      SHA2,
	"sha-256":     SHA2,
	"sha-1":       SHA1,
	"sha-384":     SHA384,
	"sha-512":     SHA512,
	"ripemd160":   RMD160,
	"ripemd-160":  RMD160,
	"sha3-256":    SHA3,
	"blake2b256":  BLAKE2B,
	"blake2b-256": BLAKE2B,
}

var algorithmDetails = [...]string{
	MD5:     "MD5, 128-bit",
	SHA1:    "SHA-1, 160-bit",
	SHA2:    "SHA-256, 256-bit",
	SHA384:  "SHA-384, 384-bit",
	SHA512:  "SHA-512, 512-bit",
	RMD160:  "RIPEMD-160, 160-bit",
	SHA3:    "SHA3-256, 256-bit",
	BLAKE2B: "BLAKE2b-256, 256-bit",
}

func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return algorithmNames[Unknown]
}

// Describe returns a short human description of the family.
func (a Algorithm) Describe() string {
	if a.Valid() {
		return algorithmDetails[a]
	}
	return ""
}

func (a Algorithm) Valid() bool {
	return a > Unknown && a <= BLAKE2B
}

// New returns a fresh hash for the family. It panics on an invalid family;
// callers validate with ParseAlgorithm first.
func (a Algorithm) New() hash.Hash {
	switch a {
	case MD5:
		return md5.New() // #nosec G401
	case SHA1:
		return sha1.New() // #nosec G401
	case SHA2:
		return sha256.New()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	case RMD160:
		return ripemd160.New()
	case SHA3:
		return sha3.New256()
	case BLAKE2B:
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
	panic(&UnsupportedAlgorithmError{Name: a.String()})
}

// HexLen is the length of the hex digest the family produces.
func (a Algorithm) HexLen() int {
	return a.New().Size() * 2
}

// ParseAlgorithm resolves a family by name or alias, case-insensitively.
// An empty name selects Default.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Default, nil
	}
	for a := MD5; a <= BLAKE2B; a++ {
		if strings.ToLower(algorithmNames[a]) == key {
			return a, nil
		}
	}
	if a, ok := algorithmAliases[key]; ok {
		return a, nil
	}
	return Unknown, &UnsupportedAlgorithmError{Name: name}
}

// Algorithms lists every supported family in declaration order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, int(BLAKE2B))
	for a := MD5; a <= BLAKE2B; a++ {
		out = append(out, a)
	}
	return out
}

// Names returns the canonical family names.
func Names() []string {
	algs := Algorithms()
	out := make([]string, len(algs))
	for i, a := range algs {
		out[i] = a.String()
	}
	return out
}
