package core

import (
	"crypto/sha256"
	"encoding/hex"
)

func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:12])
}
