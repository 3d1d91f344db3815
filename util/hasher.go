package util

import (
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"os"
)

// DefaultBlockSize is the read size used while hashing a file.
// 1 MiB bounds memory per worker while keeping read syscalls rare.
const DefaultBlockSize = 1 << 20

// Hasher computes file digests block by block. A Hasher owns its block
// buffer and is not safe for concurrent use; give each worker its own.
type Hasher struct {
	algo Algorithm
	h    hash.Hash
	buf  []byte
}

// NewHasher returns a Hasher for algo reading blockSize bytes at a time.
// A non-positive blockSize selects DefaultBlockSize.
func NewHasher(algo Algorithm, blockSize int) *Hasher {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Hasher{
		algo: algo,
		h:    algo.New(),
		buf:  make([]byte, blockSize),
	}
}

// Algorithm returns the algorithm the Hasher was built for.
func (h *Hasher) Algorithm() Algorithm {
	return h.algo
}

// HashFile hashes the file at path and returns its hex digest and the number
// of bytes read. Failures are returned as *FileError.
func (h *Hasher) HashFile(path string) (digest string, n int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, newFileError(path, err)
	}
	if info.IsDir() {
		return "", 0, newFileError(path, ErrExpectedFile)
	}
	if !info.Mode().IsRegular() {
		return "", 0, newFileError(path, ErrNotRegularFile)
	}
	file, err := os.Open(path)
	if err != nil {
		return "", 0, newFileError(path, err)
	}
	defer file.Close()

	digest, n, err = h.HashReader(file)
	if err != nil {
		return "", n, &FileError{Path: path, Kind: KindRead, Err: err}
	}
	return digest, n, nil
}

// HashReader digests r until EOF.
func (h *Hasher) HashReader(r io.Reader) (string, int64, error) {
	h.h.Reset()
	var total int64
	for {
		n, err := r.Read(h.buf)
		if n > 0 {
			h.h.Write(h.buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", total, err
		}
	}
	return hex.EncodeToString(h.h.Sum(nil)), total, nil
}

// HashFile hashes a single file with algo using the default block size.
func HashFile(path string, algo Algorithm) (string, error) {
	digest, _, err := NewHasher(algo, DefaultBlockSize).HashFile(path)
	return digest, err
}

// HashReader calculates the digest of data from an io.Reader.
func HashReader(r io.Reader, algo Algorithm) (string, error) {
	digest, _, err := NewHasher(algo, DefaultBlockSize).HashReader(r)
	return digest, err
}
