package analytics

import (
	"time"
)

// Value is a Firestore REST typed value. Exactly one field is set.
type Value struct {
	StringValue    *string `json:"stringValue,omitempty"`
	TimestampValue *string `json:"timestampValue,omitempty"`
}

// StringValue wraps s as a Firestore string
func StringValue(s string) Value {
	return Value{StringValue: &s}
}

// TimestampValue wraps t as a Firestore timestamp in RFC 3339 UTC
func TimestampValue(t time.Time) Value {
	s := t.UTC().Format(time.RFC3339Nano)
	return Value{TimestampValue: &s}
}

// String returns the string payload, or "" for other types
func (v Value) String() string {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.TimestampValue != nil:
		return *v.TimestampValue
	default:
		return ""
	}
}

// Document is the Firestore REST document resource
type Document struct {
	Name       string           `json:"name,omitempty"`
	Fields     map[string]Value `json:"fields"`
	CreateTime string           `json:"createTime,omitempty"`
	UpdateTime string           `json:"updateTime,omitempty"`
}

// apiError is the error body returned by Google APIs
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
