package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// hashKey returns "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data. Graph documents are hashed with it
// before being handed to a [Keyer].
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// KeyType returns the kind of a key ("mapping", "render"), skipping any
// scope prefix added by [ScopedKeyer]. Render keys embed a mapping key, so
// the kind named first wins. It labels observability events.
func KeyType(key string) string {
	kind, at := "other", len(key)
	for _, k := range []string{"mapping", "render"} {
		i := segmentIndex(key, k+":")
		if i >= 0 && i < at {
			kind, at = k, i
		}
	}
	return kind
}

// segmentIndex returns the offset of the first occurrence of seg that
// starts the key or follows a colon, or -1.
func segmentIndex(key, seg string) int {
	for off := 0; off < len(key); {
		i := strings.Index(key[off:], seg)
		if i < 0 {
			return -1
		}
		i += off
		if i == 0 || key[i-1] == ':' {
			return i
		}
		off = i + 1
	}
	return -1
}
