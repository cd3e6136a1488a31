package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Reference is a document reference field as submitted by clients. Clients
// send references in several shapes and all of them normalize to the plain
// identifier string:
//
//	"b1f2..."            -> "b1f2..."
//	{"_ref": "b1f2..."}  -> "b1f2..."
//	{"_id": "b1f2..."}   -> "b1f2..."
//	null                 -> ""
//
// Anything else also normalizes to the empty string so downstream code only
// ever deals with the canonical ID.
type Reference string

// UnmarshalJSON implements json.Unmarshaler
func (r *Reference) UnmarshalJSON(data []byte) error {
	*r = ""

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Reference(s)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		// Not a string, object, or null. Treat as empty rather than
		// failing the whole payload.
		return nil
	}
	for _, key := range []string{"_ref", "_id"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			*r = Reference(id)
			return nil
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler. References always serialize in the
// canonical string form.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// String returns the normalized identifier
func (r Reference) String() string {
	return string(r)
}

// IsZero reports whether the reference is empty
func (r Reference) IsZero() bool {
	return r == ""
}

// UUID parses the reference as a UUID. Empty references are an error;
// use UUIDPtr for optional fields.
func (r Reference) UUID() (uuid.UUID, error) {
	return uuid.Parse(string(r))
}

// UUIDPtr parses the reference as a UUID, returning nil for an empty
// reference
func (r Reference) UUIDPtr() (*uuid.UUID, error) {
	if r == "" {
		return nil, nil
	}
	id, err := uuid.Parse(string(r))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
