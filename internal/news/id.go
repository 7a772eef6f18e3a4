package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a normalized entity identifier. Collection stores of the json-server
// family return identifiers as either JSON numbers or JSON strings depending
// on how the record was written, so the raw value is canonicalized to a
// trimmed string exactly once, at the decoding boundary. After that point
// identifiers compare with plain equality.
type ID string

// ParseID canonicalizes a raw identifier value.
func ParseID(raw string) ID {
	return ID(strings.TrimSpace(raw))
}

// String returns the canonical string form.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON accepts both string-typed and number-typed identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return fmt.Errorf("news: decode identifier: %w", err)
		}
		*id = ParseID(value)
		return nil
	}
	var value json.Number
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fmt.Errorf("news: decode identifier: %w", err)
	}
	*id = ParseID(value.String())
	return nil
}

// MarshalJSON always emits the canonical string form.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// IDProvider issues identifiers for newly created comments.
type IDProvider interface {
	NewID() (ID, error)
}

type timestampIDProvider struct {
	clock func() time.Time
}

// NewTimestampIDProvider constructs an IDProvider that derives identifiers
// from the current clock reading in milliseconds.
func NewTimestampIDProvider(clock func() time.Time) IDProvider {
	if clock == nil {
		clock = time.Now
	}
	return &timestampIDProvider{clock: clock}
}

func (p *timestampIDProvider) NewID() (ID, error) {
	return ID(strconv.FormatInt(p.clock().UnixMilli(), 10)), nil
}
