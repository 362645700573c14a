package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/parquet"
	"github.com/onchainlab/gauge/schema"
)

// Base names of the Mayer Multiple outputs.
const (
	FullMayerName       = "corrected-mayer-multiple"
	SimplifiedMayerName = "simplified-mayer-multiple"
)

var (
	fullMayerHeader       = []string{"date", "price", "sma200d", "mayerMultiple", "originalIndex", "fourYearPrice", "timestamp"}
	simplifiedMayerHeader = []string{"date", "price", "sma200d", "mayerMultiple"}
)

// fullMayerJSON is the JSON form of an annotated point. Numbers keep full precision.
type fullMayerJSON struct {
	Timestamp              int64    `json:"timestamp"`
	Price                  float64  `json:"price"`
	Index                  *float64 `json:"index,omitempty"`
	FourYearPrice          *float64 `json:"fourYearPrice,omitempty"`
	Date                   string   `json:"date"`
	SMA200D                float64  `json:"sma200d"`
	IsSMA200Complete       bool     `json:"isSMA200Complete"`
	MayerMultiple          *float64 `json:"mayerMultiple"`
	OriginalIndex          *float64 `json:"originalIndex"`
	OriginalReferencePrice *float64 `json:"originalReferencePrice"`
}

type simplifiedMayerJSON struct {
	Date          string   `json:"date"`
	Price         float64  `json:"price"`
	SMA200D       float64  `json:"sma200d"`
	MayerMultiple *float64 `json:"mayerMultiple"`
}

// WriteMayerResult writes the full and simplified datasets in every configured format
// and returns the written paths.
func WriteMayerResult(result schema.MayerResult, cfg *contract.Config) ([]string, error) {
	if err := ensureDir(cfg.OutputDir); err != nil {
		return nil, err
	}
	var written []string
	for _, format := range cfg.Formats {
		full := outputPath(cfg.OutputDir, FullMayerName, format)
		simplified := outputPath(cfg.OutputDir, SimplifiedMayerName, format)

		var err error
		switch format {
		case schema.CSVFormat:
			err = writeWithFile(full, func(w io.Writer) error {
				return writeFullMayerCSV(w, result.Full)
			}, "Wrote CSV", cfg.Quiet)
			if err == nil {
				err = writeWithFile(simplified, func(w io.Writer) error {
					return writeSimplifiedMayerCSV(w, result.Simplified)
				}, "Wrote CSV", cfg.Quiet)
			}
		case schema.JSONFormat:
			err = writeWithFile(full, func(w io.Writer) error {
				return writeJSON(w, fullMayerRows(result.Full))
			}, "Wrote JSON", cfg.Quiet)
			if err == nil {
				err = writeWithFile(simplified, func(w io.Writer) error {
					return writeJSON(w, simplifiedMayerRows(result.Simplified))
				}, "Wrote JSON", cfg.Quiet)
			}
		case schema.ParquetFormat:
			err = parquet.WriteAnnotatedParquet(result.Full, full)
			if err == nil {
				err = parquet.WriteSimplifiedParquet(result.Simplified, simplified)
			}
			if err == nil && !cfg.Quiet {
				contract.LogInfo("💾 Wrote Parquet to %s and %s", full, simplified)
			}
		default:
			err = fmt.Errorf("unsupported output format %q", format)
		}
		if err != nil {
			return written, fmt.Errorf("error writing %s output: %w", format, err)
		}
		written = append(written, full, simplified)
	}
	return written, nil
}

// writeFullMayerCSV writes every annotated point. Null values are empty cells.
func writeFullMayerCSV(w io.Writer, full []schema.AnnotatedObservation) error {
	return writeCSVWithHeader(w, fullMayerHeader, func(cw *csv.Writer) error {
		for _, a := range full {
			rec := []string{
				a.Date,
				contract.FormatFixed(a.Price, contract.PricePlaces),
				contract.FormatFixed(a.SMA, contract.PricePlaces),
				contract.FormatOptional(a.MayerMultiple, contract.RatioPlaces),
				contract.FormatOptional(a.OriginalIndex, contract.RatioPlaces),
				contract.FormatOptional(a.OriginalReferencePrice, contract.PricePlaces),
				strconv.FormatInt(a.Timestamp, 10),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSimplifiedMayerCSV writes the complete-window points.
func writeSimplifiedMayerCSV(w io.Writer, simplified []schema.SimplifiedObservation) error {
	return writeCSVWithHeader(w, simplifiedMayerHeader, func(cw *csv.Writer) error {
		for _, s := range simplified {
			rec := []string{
				s.Date,
				contract.FormatFixed(s.Price, contract.PricePlaces),
				contract.FormatFixed(s.SMA, contract.PricePlaces),
				contract.FormatOptional(s.MayerMultiple, contract.RatioPlaces),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func fullMayerRows(full []schema.AnnotatedObservation) []fullMayerJSON {
	out := make([]fullMayerJSON, len(full))
	for i, a := range full {
		out[i] = fullMayerJSON{
			Timestamp:              a.Timestamp,
			Price:                  a.Price,
			Index:                  a.OriginalIndex,
			FourYearPrice:          a.OriginalReferencePrice,
			Date:                   a.Date,
			SMA200D:                a.SMA,
			IsSMA200Complete:       a.IsSMAComplete,
			MayerMultiple:          a.MayerMultiple,
			OriginalIndex:          a.OriginalIndex,
			OriginalReferencePrice: a.OriginalReferencePrice,
		}
	}
	return out
}

func simplifiedMayerRows(simplified []schema.SimplifiedObservation) []simplifiedMayerJSON {
	out := make([]simplifiedMayerJSON, len(simplified))
	for i, s := range simplified {
		out[i] = simplifiedMayerJSON{
			Date:          s.Date,
			Price:         s.Price,
			SMA200D:       s.SMA,
			MayerMultiple: s.MayerMultiple,
		}
	}
	return out
}
