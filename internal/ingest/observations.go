package ingest

import (
	"errors"
	"fmt"
	"math"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/schema"
)

// Observation errors.
var (
	ErrMissingField = errors.New("missing required field")
	ErrNonFinite    = errors.New("non-finite value")
)

// Field names of a Mayer Multiple snapshot record.
const (
	timestampField     = "timestamp"
	priceField         = "price"
	indexField         = "index"
	fourYearPriceField = "fourYearPrice"
)

// Observations reads a Mayer Multiple snapshot. The top level must be an
// array, and every element must carry a numeric timestamp and price.
func Observations(doc *Document) ([]schema.Observation, error) {
	if err := doc.Accepts(ShapeArray); err != nil {
		return nil, err
	}
	records, err := doc.Records()
	if err != nil {
		return nil, err
	}

	out := make([]schema.Observation, len(records))
	for i, rec := range records {
		ts, ok := rec.Float(timestampField)
		if !ok {
			return nil, fmt.Errorf("record %d: %w %q", i, ErrMissingField, timestampField)
		}
		price, ok := rec.Float(priceField)
		if !ok {
			return nil, fmt.Errorf("record %d: %w %q", i, ErrMissingField, priceField)
		}
		if !finite(ts) {
			return nil, fmt.Errorf("record %d: %w in %q", i, ErrNonFinite, timestampField)
		}
		if !finite(price) {
			return nil, fmt.Errorf("record %d: %w in %q", i, ErrNonFinite, priceField)
		}
		out[i] = schema.Observation{
			Timestamp:     contract.FloatToEpoch(ts),
			Price:         price,
			Index:         finiteOrNil(rec.OptionalFloat(indexField)),
			FourYearPrice: finiteOrNil(rec.OptionalFloat(fourYearPriceField)),
		}
	}
	return out, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// finiteOrNil drops NaN and infinite optional values.
func finiteOrNil(f *float64) *float64 {
	if f == nil || !finite(*f) {
		return nil
	}
	return f
}

// ReadObservations reads and decodes the Mayer Multiple snapshot at path.
func ReadObservations(path string) ([]schema.Observation, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	obs, err := Observations(doc)
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", path, err)
	}
	return obs, nil
}
