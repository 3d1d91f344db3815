package util

import (
	"crypto/md5"
	"crypto/sha1"
	"fmt"
	"hash"
	"strings"

	sha256 "github.com/minio/sha256-simd"
)

// Algorithm selects the digest computed for every file in a run.
type Algorithm int

const (
	MD5 Algorithm = iota
	SHA1
	SHA256
)

// Algorithms lists every supported algorithm in flag order.
var Algorithms = []Algorithm{MD5, SHA1, SHA256}

// String returns the identifier used for flags and the report header.
func (a Algorithm) String() string {
	switch a {
	case MD5:
		return "md5"
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// New returns a fresh hash state for the algorithm.
func (a Algorithm) New() hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	}
	panic(fmt.Sprintf("util: unsupported algorithm %d", int(a)))
}

// DigestLen is the length of the hex digest produced by the algorithm.
func (a Algorithm) DigestLen() int {
	switch a {
	case MD5:
		return md5.Size * 2
	case SHA1:
		return sha1.Size * 2
	case SHA256:
		return sha256.Size * 2
	}
	return 0
}

// ParseAlgorithm maps an identifier such as "sha256" (case-insensitive,
// "sha-256" accepted) to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
	for _, a := range Algorithms {
		if a.String() == n {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
