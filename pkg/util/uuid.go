package util

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Namespace scopes the name-based UUIDs produced by HashUUID.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jpfielding/jpegls.go"))

// HashUUID returns a name-based (SHA-1) UUID of the JSON encoding of value,
// so equal configurations always map to the same identifier.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return uuid.NewSHA1(Namespace, raw).String()
}
