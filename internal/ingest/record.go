package ingest

// Field is one key of a record, in source order.
type Field struct {
	Key   string
	Value Value
}

// Record is a JSON object that keeps its keys in source order.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields, mostly for tests and columnar zips.
func NewRecord(fields ...Field) Record {
	return Record{fields: fields}
}

// Fields returns the record's fields in source order.
func (r Record) Fields() []Field {
	return r.fields
}

// Keys returns the record's keys in source order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key. Later duplicates win, as with JSON.parse.
func (r Record) Get(key string) (Value, bool) {
	for i := len(r.fields) - 1; i >= 0; i-- {
		if r.fields[i].Key == key {
			return r.fields[i].Value, true
		}
	}
	return Value{}, false
}

// Lookup returns the first non-null value among the aliases, in alias order.
func (r Record) Lookup(aliases ...string) (Value, string, bool) {
	for _, alias := range aliases {
		if v, ok := r.Get(alias); ok && !v.IsNull() {
			return v, alias, true
		}
	}
	return Value{}, "", false
}

// Float returns the first alias holding a number.
func (r Record) Float(aliases ...string) (float64, bool) {
	for _, alias := range aliases {
		v, ok := r.Get(alias)
		if !ok || v.IsNull() {
			continue
		}
		if f, ok := v.Float(); ok {
			return f, true
		}
	}
	return 0, false
}

// OptionalFloat is Float returning nil when no alias holds a number.
func (r Record) OptionalFloat(aliases ...string) *float64 {
	if f, ok := r.Float(aliases...); ok {
		return &f
	}
	return nil
}

// Text returns the verbatim text of the first non-empty alias.
func (r Record) Text(aliases ...string) (string, bool) {
	for _, alias := range aliases {
		v, ok := r.Get(alias)
		if !ok || v.IsEmpty() {
			continue
		}
		return v.Text(), true
	}
	return "", false
}

// Has reports whether any alias is present with a non-null value.
func (r Record) Has(aliases ...string) bool {
	_, _, ok := r.Lookup(aliases...)
	return ok
}
