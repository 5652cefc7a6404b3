package artifact

import (
	"crypto/sha256"
	"fmt"
)

func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
