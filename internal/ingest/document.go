// Package ingest decodes vendor JSON snapshots into ordered records.
//
// Vendors wrap the same series in several top-level shapes. Decode settles
// the shape once, so converters only ever see records or parallel columns.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/buger/jsonparser"
)

// Shape is the detected top-level layout of a snapshot.
type Shape int

// All shapes recognized by Decode.
const (
	ShapeArray        Shape = iota // [ {...}, {...} ] or [ [...], [...] ]
	ShapeWrapped                   // { "data": [...] } or { "list": [...] }
	ShapeNumericKeyed              // { "0": {...}, "1": {...} }
	ShapeColumnar                  // { "time": [...], "bl": [...] }
	ShapeSingle                    // { ... } treated as one record
)

// String returns a readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeWrapped:
		return "wrapped"
	case ShapeNumericKeyed:
		return "numeric-keyed"
	case ShapeColumnar:
		return "columnar"
	case ShapeSingle:
		return "single"
	}
	return "unknown"
}

// Decoding errors.
var (
	ErrInvalidJSON      = errors.New("invalid JSON")
	ErrUnsupportedShape = errors.New("unsupported top-level shape")
	ErrNotArray         = errors.New("top level is not an array")
	ErrRaggedColumns    = errors.New("columns have different lengths")
)

// wrapperKeys are probed in order for ShapeWrapped.
var wrapperKeys = []string{"data", "list"}

// Column is one named array of a columnar document.
type Column struct {
	Name   string
	Values []Value
}

// Document is a decoded snapshot.
type Document struct {
	Shape   Shape
	Key     string   // wrapper key for ShapeWrapped
	Items   []Value  // series elements for every shape but ShapeColumnar
	Columns []Column // parallel arrays for ShapeColumnar
}

// ReadFile reads and decodes the snapshot at path.
func ReadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	doc, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	return doc, nil
}

// Decode classifies raw JSON into exactly one Shape.
func Decode(raw []byte) (*Document, error) {
	if !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}
	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	top := Value{Raw: value, Type: dataType}

	switch dataType {
	case jsonparser.Array:
		return &Document{Shape: ShapeArray, Items: top.Items()}, nil
	case jsonparser.Object:
		return decodeObject(top)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedShape, dataType)
	}
}

func decodeObject(top Value) (*Document, error) {
	rec := top.Record()
	for _, key := range wrapperKeys {
		if v, ok := rec.Get(key); ok && v.Type == jsonparser.Array {
			return &Document{Shape: ShapeWrapped, Key: key, Items: v.Items()}, nil
		}
	}
	// API envelopes such as {"code":0,"data":{...}} classify by their payload.
	if v, ok := rec.Get("data"); ok && v.Type == jsonparser.Object {
		doc, err := decodeObject(v)
		if err != nil {
			return nil, err
		}
		doc.Key = "data"
		return doc, nil
	}

	fields := rec.Fields()
	if len(fields) == 0 {
		return &Document{Shape: ShapeSingle, Items: []Value{top}}, nil
	}

	if items, ok := numericKeyed(fields); ok {
		return &Document{Shape: ShapeNumericKeyed, Items: items}, nil
	}

	if cols, ok := columnar(fields); ok {
		return &Document{Shape: ShapeColumnar, Columns: cols}, nil
	}

	return &Document{Shape: ShapeSingle, Items: []Value{top}}, nil
}

// Records returns the series as records. Elements that are not objects
// become empty records, so converters treat them as missing every field.
// Columnar documents are zipped by index and must have equal lengths.
func (d *Document) Records() ([]Record, error) {
	if d.Shape == ShapeColumnar {
		return d.zipColumns()
	}
	out := make([]Record, len(d.Items))
	for i, item := range d.Items {
		out[i] = item.Record()
	}
	return out, nil
}

// Rows returns the series elements that are arrays, as value slices.
// Other elements yield nil rows.
func (d *Document) Rows() [][]Value {
	out := make([][]Value, len(d.Items))
	for i, item := range d.Items {
		out[i] = item.Items()
	}
	return out
}

// Column returns the named column of a columnar document.
func (d *Document) Column(name string) ([]Value, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

func (d *Document) zipColumns() ([]Record, error) {
	if len(d.Columns) == 0 {
		return nil, nil
	}
	n := len(d.Columns[0].Values)
	for _, c := range d.Columns[1:] {
		if len(c.Values) != n {
			return nil, fmt.Errorf("%w: %s has %d, %s has %d", ErrRaggedColumns, d.Columns[0].Name, n, c.Name, len(c.Values))
		}
	}
	out := make([]Record, n)
	for i := range n {
		fields := make([]Field, len(d.Columns))
		for j, c := range d.Columns {
			fields[j] = Field{Key: c.Name, Value: c.Values[i]}
		}
		out[i] = NewRecord(fields...)
	}
	return out, nil
}

// Accepts checks the document shape against an allow list.
func (d *Document) Accepts(shapes ...Shape) error {
	for _, s := range shapes {
		if d.Shape == s {
			return nil
		}
	}
	if len(shapes) == 1 && shapes[0] == ShapeArray {
		return fmt.Errorf("%w (found %s)", ErrNotArray, d.Shape)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedShape, d.Shape)
}

// numericKeyed orders the values by key when every key is a non-negative integer.
func numericKeyed(fields []Field) ([]Value, bool) {
	type entry struct {
		n     uint64
		value Value
	}
	entries := make([]entry, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f.Key, 10, 64)
		if err != nil {
			return nil, false
		}
		entries = append(entries, entry{n: n, value: f.Value})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].n < entries[j].n })

	items := make([]Value, len(entries))
	for i, e := range entries {
		items[i] = e.value
	}
	return items, true
}

// columnar keeps the fields in source order when every one is an array.
func columnar(fields []Field) ([]Column, bool) {
	cols := make([]Column, 0, len(fields))
	for _, f := range fields {
		if !f.Value.IsArray() {
			return nil, false
		}
		cols = append(cols, Column{Name: f.Key, Values: f.Value.Items()})
	}
	return cols, true
}
