package shared

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest identifies the content of one published file.
type Digest struct {
	SHA256 string `yaml:"sha256"`
	BLAKE3 string `yaml:"blake3"`
	Size   int    `yaml:"size"`
}

func DigestOf(content []byte) Digest {
	sha := sha256.Sum256(content)
	b3 := blake3.Sum256(content)
	return Digest{
		SHA256: hex.EncodeToString(sha[:]),
		BLAKE3: hex.EncodeToString(b3[:]),
		Size:   len(content),
	}
}
