package services

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashContent returns a deterministic fingerprint for deduplication.
// Strings hash as-is; structured values are canonicalized to JSON first
// (encoding/json emits map keys in sorted order), so two semantically
// identical structures yield the same digest regardless of construction
// order. md5 here is a dedup signal, not a security boundary.
func HashContent(content interface{}) string {
	var payload string
	switch v := content.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		b, err := json.Marshal(content)
		if err != nil {
			payload = fmt.Sprint(content)
		} else {
			payload = string(b)
		}
	}
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// HashSourceFields fingerprints a content source from its url and title
func HashSourceFields(url, title string) string {
	return HashContent(url + title)
}
