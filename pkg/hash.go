package treeutils

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"
)

// Digest is the raw output of a content hash. It is stored as a string so it
// can key maps directly; equality means "same content".
type Digest string

// Hex returns the digest as lowercase hex
func (d Digest) Hex() string {
	return hex.EncodeToString([]byte(d))
}

// String implements fmt.Stringer
func (d Digest) String() string {
	return d.Hex()
}

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			TypeID:  HashTypeSHA1,
			Size:    HashSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	case "blake2b":
		return &HashAlgorithm{
			Name:   "blake2b",
			TypeID: HashTypeBLAKE2b,
			Size:   HashSizeBLAKE2b,
			NewFunc: func() hash.Hash {
				// Only fails for keys longer than 64 bytes
				h, _ := blake2b.New256(nil)
				return h
			},
		}, nil
	case "blake3":
		return &HashAlgorithm{
			Name:    "blake3",
			TypeID:  HashTypeBLAKE3,
			Size:    HashSizeBLAKE3,
			NewFunc: func() hash.Hash { return blake3.New(HashSizeBLAKE3, nil) },
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHash, name)
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	name := HashTypeName(typeID)
	if name == "unknown" {
		return nil, fmt.Errorf("%w: type ID %d", ErrUnsupportedHash, typeID)
	}
	return GetHashAlgorithm(name)
}

// HashFile streams a file through the algorithm in bufferSize chunks and
// returns the finalized digest. A bufferSize <= 0 selects DefaultHashBuffer.
func HashFile(filePath string, algorithm *HashAlgorithm, bufferSize int) (Digest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return HashReader(file, algorithm, bufferSize)
}

// HashReader is HashFile for an already open stream
func HashReader(r io.Reader, algorithm *HashAlgorithm, bufferSize int) (Digest, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultHashBuffer
	}

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return Digest(hasher.Sum(nil)), nil
}

// HashBytes hashes an in-memory value, mostly useful for tests and tools
func HashBytes(data []byte, algorithm *HashAlgorithm) Digest {
	hasher := algorithm.NewFunc()
	hasher.Write(data)
	return Digest(hasher.Sum(nil))
}
