package treeutils

import "strings"

// Hash type constants
const (
	HashTypeSHA1    uint16 = 1 // SHA-1 (20 bytes)
	HashTypeSHA256  uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512  uint16 = 3 // SHA-512 (64 bytes)
	HashTypeBLAKE2b uint16 = 4 // BLAKE2b-256 (32 bytes)
	HashTypeBLAKE3  uint16 = 5 // BLAKE3 (32 bytes)
)

// Hash size constants
const (
	HashSizeSHA1    = 20
	HashSizeSHA256  = 32
	HashSizeSHA512  = 64
	HashSizeBLAKE2b = 32
	HashSizeBLAKE3  = 32
)

// DefaultHashAlgorithm is used when no configuration selects one
const DefaultHashAlgorithm = "blake3"

// DefaultHashBuffer is the read chunk size used while streaming file content
const DefaultHashBuffer = 64 * 1024

// shardCount is the number of independently locked buckets in a ContentIndex.
// Digests are uniformly distributed so the first byte is a fine shard key.
const shardCount = 64

// Skiplist contexts carried by diff entries
const (
	ContextChanged = "changed"
	ContextCreated = "created"
	ContextDeleted = "deleted"
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeSHA1:
		return "sha1"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA512:
		return "sha512"
	case HashTypeBLAKE2b:
		return "blake2b"
	case HashTypeBLAKE3:
		return "blake3"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "sha1":
		return HashTypeSHA1, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha512":
		return HashTypeSHA512, true
	case "blake2b":
		return HashTypeBLAKE2b, true
	case "blake3":
		return HashTypeBLAKE3, true
	default:
		return 0, false
	}
}
