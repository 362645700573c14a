package ingest

import (
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/onchainlab/gauge/internal/contract"
)

// Value is one raw JSON value with its detected type.
type Value struct {
	Raw  []byte
	Type jsonparser.ValueType
}

// IsNull reports whether the value is JSON null or absent.
func (v Value) IsNull() bool {
	return v.Type == jsonparser.Null || v.Type == jsonparser.NotExist
}

// IsEmpty reports whether the value is null, absent or the empty string.
func (v Value) IsEmpty() bool {
	return v.IsNull() || (v.Type == jsonparser.String && len(v.Raw) == 0)
}

// IsNumber reports whether the value is a JSON number.
func (v Value) IsNumber() bool {
	return v.Type == jsonparser.Number
}

// IsArray reports whether the value is a JSON array.
func (v Value) IsArray() bool {
	return v.Type == jsonparser.Array
}

// Float returns the numeric value. Numeric strings are accepted.
func (v Value) Float() (float64, bool) {
	switch v.Type {
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(v.Raw)
		return f, err == nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(v.Raw)
		if err != nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

// Text renders the value for verbatim output.
func (v Value) Text() string {
	switch v.Type {
	case jsonparser.String:
		s, err := jsonparser.ParseString(v.Raw)
		if err != nil {
			return string(v.Raw)
		}
		return s
	case jsonparser.Number:
		if f, err := jsonparser.ParseFloat(v.Raw); err == nil {
			return contract.FormatPlain(f)
		}
		return string(v.Raw)
	case jsonparser.Null, jsonparser.NotExist:
		return ""
	}
	return string(v.Raw)
}

// Items returns the elements of an array value, or nil for other types.
func (v Value) Items() []Value {
	if v.Type != jsonparser.Array {
		return nil
	}
	var out []Value
	_, _ = jsonparser.ArrayEach(v.Raw, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		out = append(out, Value{Raw: value, Type: dataType})
	})
	return out
}

// Record returns the value as an ordered record. Non-objects yield an empty record.
func (v Value) Record() Record {
	if v.Type != jsonparser.Object {
		return Record{}
	}
	var rec Record
	_ = jsonparser.ObjectEach(v.Raw, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			name = string(key)
		}
		rec.fields = append(rec.fields, Field{Key: name, Value: Value{Raw: value, Type: dataType}})
		return nil
	})
	return rec
}
