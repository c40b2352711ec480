package model

import (
	"fmt"
	"strings"
	"time"
)

// AuditEntry is one immutable record of a security-relevant action. Entries
// are append-only: no update or delete operation exists anywhere in the
// system. UserID is nil for anonymous actions such as a failed lookup on a
// public share token.
type AuditEntry struct {
	ID           string    `json:"id"`
	UserID       *string   `json:"user_id,omitempty"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   *string   `json:"resource_id,omitempty"`
	Details      *string   `json:"details,omitempty"`
	IPAddress    *string   `json:"ip_address,omitempty"`
	Timestamp    time.Time `json:"timestamp"`

	// Username is populated on read by joining the users table; it is not a
	// stored column.
	Username *string `json:"username,omitempty"`
}

// DetailField is one key/value pair of a structured audit details payload.
type DetailField struct {
	Key   string
	Value any
}

// F builds a DetailField. Call sites read as F("filename", doc.Filename).
func F(key string, value any) DetailField {
	return DetailField{Key: key, Value: value}
}

// AuditDetails is the details payload of an audit entry: either preformatted
// text or an ordered list of key/value fields. Both forms serialize through
// String to the single stored text representation, so call sites never do
// their own formatting.
type AuditDetails struct {
	text       string
	fields     []DetailField
	structured bool
}

// DetailText wraps an already formatted details string.
func DetailText(text string) AuditDetails {
	return AuditDetails{text: text}
}

// DetailFields builds a structured details payload with stable field order.
func DetailFields(fields ...DetailField) AuditDetails {
	return AuditDetails{fields: fields, structured: true}
}

// IsZero reports whether no details were provided at all.
func (d AuditDetails) IsZero() bool {
	return !d.structured && d.text == ""
}

// String renders the stored text form. Structured payloads serialize as
// space-separated key=value pairs in field order; nil values render as "null".
func (d AuditDetails) String() string {
	if !d.structured {
		return d.text
	}
	parts := make([]string, 0, len(d.fields))
	for _, f := range d.fields {
		parts = append(parts, f.Key+"="+renderDetailValue(f.Value))
	}
	return strings.Join(parts, " ")
}

func renderDetailValue(v any) string {
	if v == nil {
		return "null"
	}
	switch x := v.(type) {
	case *string:
		if x == nil {
			return "null"
		}
		return *x
	case *time.Time:
		if x == nil {
			return "null"
		}
		return x.UTC().Format(time.RFC3339)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
