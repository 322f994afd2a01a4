// Package record defines the open document model stored by kura: an
// untyped field map with helpers for identifiers and searchable text.
package record

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Record is one stored document: an open mapping from field name to value.
// Values survive a JSON round-trip through storage, so numbers come back as
// float64 and nested maps as map[string]interface{}.
type Record map[string]interface{}

// Well-known field names.
const (
	// FieldID holds the record identifier (string or number).
	FieldID = "id"
	// FieldCreatedAt holds the write timestamp in epoch milliseconds.
	// It is set on every write, overwriting any caller-supplied value.
	FieldCreatedAt = "_createdAt"
)

// searchableFields are scanned in order when extracting index text.
var searchableFields = [...]string{"title", "name", "text", "content", "description"}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a fresh identifier of the form "<unix-millis>-<base36 suffix>".
// Adequate for a single process; there is no uniqueness check against the
// store, and two writers racing on the same millisecond can collide.
func NewID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), randomBase36(7))
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}
	return string(b)
}

// HashID returns a stable identifier derived from key. Same key always yields
// the same ID, so callers can upsert by natural key (a file path, a URL).
func HashID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// IDKey returns the storage-key form of an identifier value. String IDs are
// used as-is; numeric IDs are formatted in decimal. The second return is
// false when v is absent, empty, or neither string nor number, meaning a
// fresh ID must be generated.
func IDKey(v interface{}) (string, bool) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case json.Number:
		return id.String(), true
	default:
		return "", false
	}
}

// CreatedAt returns the record's write timestamp in epoch milliseconds.
// It coerces the numeric types a JSON round-trip can produce; the second
// return is false when the field is absent or not numeric.
func CreatedAt(r Record) (int64, bool) {
	switch ts := r[FieldCreatedAt].(type) {
	case int64:
		return ts, true
	case int:
		return int64(ts), true
	case float64:
		return int64(ts), true
	case json.Number:
		n, err := ts.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// SearchableText extracts the text used for indexing: the values of the
// recognized fields (title, name, text, content, description) that are
// present and non-empty strings, joined by single spaces and lower-cased.
// An empty result means the record is not indexed.
func SearchableText(r Record) string {
	var parts []string
	for _, field := range searchableFields {
		if s, ok := r[field].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Clone returns a shallow copy of r, so callers' maps are never aliased by
// the store. Nested values are shared.
func Clone(r Record) Record {
	out := make(Record, len(r)+2)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Marshal converts a typed value into a Record through its JSON form, for
// callers that prefer concrete structs over open maps.
func Marshal(v interface{}) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("value is not an object: %w", err)
	}
	return r, nil
}

// Unmarshal fills v from the record through its JSON form.
func Unmarshal(r Record, v interface{}) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return nil
}
