package core

import (
	"github.com/onchainlab/gauge/core/algo"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/ingest"
	"github.com/onchainlab/gauge/schema"
)

// Shapes accepted by converters that tolerate any object envelope.
var lenientShapes = []ingest.Shape{ingest.ShapeArray, ingest.ShapeWrapped, ingest.ShapeSingle}

func init() {
	register(&recordConverter{
		kind:        schema.S2FMetric,
		purpose:     "Stock-to-Flow ratio and model variance next to price",
		shapes:      lenientShapes,
		dateAliases: []string{"createTime", "timestamp"},
		dateHeader:  "Date",
		placeholder: UnknownPlaceholder,
		columns: []column{
			{header: "BTC Price", aliases: []string{"price"}, places: verbatim, required: true},
			{header: "Stock/Flow", aliases: []string{"stockFlow365dAverage", "stockToFlow", "s2f", "stock_to_flow"}, places: verbatim, required: true},
			{header: "Model Variance", aliases: []string{"modelVariance", "variance"}, places: verbatim, required: true},
		},
	})

	register(&recordConverter{
		kind:        schema.AHR999Metric,
		purpose:     "AHR999 accumulation index",
		shapes:      []ingest.Shape{ingest.ShapeArray, ingest.ShapeWrapped, ingest.ShapeNumericKeyed},
		dateAliases: []string{"date", "time", "timestamp"},
		dateHeader:  "Date",
		keepUndated: true,
		placeholder: UnknownPlaceholder,
		columns: []column{
			{header: "AHR999 Index", aliases: []string{"ahr999", "ahr999Index", "ahr_index"}, places: verbatim},
		},
	})

	register(&recordConverter{
		kind:        schema.MVRVZMetric,
		purpose:     "MVRV Z-Score",
		shapes:      lenientShapes,
		dateAliases: []string{"dateTime"},
		dateHeader:  "Date",
		placeholder: UnknownPlaceholder,
		columns: []column{
			{header: "MVRV-Z Score", aliases: []string{"zScore"}, places: verbatim},
		},
	})

	register(&recordConverter{
		kind:        schema.NUPLMetric,
		purpose:     "Net Unrealized Profit/Loss",
		shapes:      lenientShapes,
		dateAliases: []string{"timestamp"},
		dateHeader:  "Date",
		placeholder: UnknownPlaceholder,
		columns: []column{
			{header: "nupl Index", aliases: []string{"index"}, places: verbatim},
		},
	})

	register(&recordConverter{
		kind:        schema.PuellMetric,
		purpose:     "Puell Multiple of miner revenue",
		shapes:      lenientShapes,
		dateAliases: []string{"createTime"},
		dateHeader:  "Date",
		placeholder: UnknownPlaceholder,
		columns: []column{
			{header: "Puell Multiple", aliases: []string{"puellMultiple"}, places: verbatim},
		},
	})

	register(&recordConverter{
		kind:        schema.ReserveRiskMetric,
		purpose:     "Reserve Risk and its HODL Bank components",
		shapes:      []ingest.Shape{ingest.ShapeArray},
		dateAliases: []string{"timestamp"},
		dateHeader:  "Date",
		placeholder: "NaN",
		columns: []column{
			{header: "VOCD", aliases: []string{"vocd"}, places: contract.ReservePlaces},
			{header: "Reserve Risk Index", aliases: []string{"reserveRiskIndex"}, places: contract.ReservePlaces},
			{header: "HODL Bank", aliases: []string{"hodlBank"}, places: contract.ReservePlaces},
			{header: "MVOCD", aliases: []string{"movcd"}, places: contract.ReservePlaces},
		},
	})

	register(&recordConverter{
		kind:        schema.AltSeasonMetric,
		purpose:     "Altcoin season index",
		shapes:      lenientShapes,
		dateAliases: []string{"timestamp"},
		dateHeader:  "Date",
		placeholder: UnknownPlaceholder,
		columns: []column{
			{header: "Altcoin Index", aliases: []string{"altcoinIndex"}, places: verbatim},
		},
	})

	register(&recordConverter{
		kind:        schema.BubbleMetric,
		purpose:     "Bitcoin bubble index and its inputs",
		shapes:      lenientShapes,
		dateAliases: []string{"time"},
		dateHeader:  "Date",
		placeholder: "",
		columns: []column{
			{header: "BTC Price", aliases: []string{"price"}, places: verbatim},
			{header: "Bubble Index", aliases: []string{"index"}, places: verbatim},
			{header: "Google Trends", aliases: []string{"gt"}, places: verbatim},
			{header: "Difficulty", aliases: []string{"bd"}, places: verbatim},
			{header: "Transactions", aliases: []string{"ts"}, places: verbatim},
			{header: "Sent By Address", aliases: []string{"sba"}, places: verbatim},
			{header: "Tweets", aliases: []string{"bt"}, places: verbatim},
		},
	})

	register(&recordConverter{
		kind:        schema.PiTopMetric,
		purpose:     "Pi Cycle Top moving averages and distance to the top signal",
		shapes:      lenientShapes,
		dateAliases: []string{"createTime"},
		dateHeader:  "Date",
		placeholder: UnknownPlaceholder,
		columns: []column{
			{header: "MA110", aliases: []string{"ma110"}, places: verbatim, zeroAbsent: true},
			{header: "MA350MU2", aliases: []string{"ma350Mu2"}, places: verbatim, zeroAbsent: true},
		},
		derive: &derivedColumn{header: "Distance_To_Top_Pct", fn: distanceToTop},
	})
}

// distanceToTop is the percentage gap between the 110-day average and
// twice the 350-day average. A zero average counts as missing.
func distanceToTop(rec ingest.Record) schema.Cell {
	ma110, ok1 := rec.Float("ma110")
	ma350, ok2 := rec.Float("ma350Mu2")
	if !ok1 || !ok2 || ma110 == 0 || ma350 == 0 {
		return schema.TextCell(UnknownPlaceholder)
	}
	ratio := algo.SafeRatio(ma110-ma350, ma350)
	if ratio == nil {
		return schema.TextCell(UnknownPlaceholder)
	}
	pct := *ratio * 100
	return schema.NumCell(pct, contract.FormatFixed(pct, contract.PricePlaces))
}
