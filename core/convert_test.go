package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onchainlab/gauge/internal/ingest"
	"github.com/onchainlab/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, kind schema.MetricKind, raw string) *schema.MetricTable {
	t.Helper()
	doc, err := ingest.Decode([]byte(raw))
	require.NoError(t, err)
	table, err := ConvertDocument(kind, doc)
	require.NoError(t, err)
	return table
}

func convertErr(t *testing.T, kind schema.MetricKind, raw string) error {
	t.Helper()
	doc, err := ingest.Decode([]byte(raw))
	require.NoError(t, err)
	_, err = ConvertDocument(kind, doc)
	return err
}

func TestMetricInfos(t *testing.T) {
	infos := MetricInfos()
	require.Len(t, infos, len(schema.AllMetricKinds))
	assert.Equal(t, schema.MayerMetric, infos[0].Kind)
	assert.Equal(t, "corrected-mayer-multiple", infos[0].Output)
	for i, info := range infos {
		assert.Equal(t, schema.AllMetricKinds[i], info.Kind)
		assert.NotEmpty(t, info.Purpose, "metric %s", info.Kind)
		assert.NotEmpty(t, info.Columns, "metric %s", info.Kind)
	}
	assert.Equal(t, "reserve-risk-data-readable", infos[8].Output)
}

func TestLookupConverterUnknown(t *testing.T) {
	_, err := LookupConverter("nope")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = LookupConverter(schema.MayerMetric)
	assert.ErrorIs(t, err, ErrUnknownMetric, "mayer has its own pipeline")
}

func TestConvertS2F(t *testing.T) {
	table := convert(t, schema.S2FMetric, `[
		{"createTime":1700000000000,"price":37000.5,"stockFlow365dAverage":56.1,"modelVariance":-0.2},
		{"timestamp":1700086400000,"price":1,"s2f":2},
		{"price":3,"s2f":4,"variance":5},
		{"timestamp":1700086400000,"price":1,"stock_to_flow":"7","variance":8}
	]`)

	assert.Equal(t, []string{"Date", "BTC Price", "Stock/Flow", "Model Variance"}, table.Columns)
	assert.Equal(t, [][]string{
		{"2023-11-14", "37000.5", "56.1", "-0.2"},
		{"2023-11-15", "1", "7", "8"},
	}, table.Records())
	assert.Equal(t, 2, table.Skipped)
	assert.Contains(t, table.Notes, "date range: 2023-11-14 to 2023-11-15")
}

func TestConvertS2FWrapped(t *testing.T) {
	table := convert(t, schema.S2FMetric, `{"data":[{"createTime":1700000000,"price":1,"s2f":2,"variance":3}]}`)
	assert.Equal(t, [][]string{{"2023-11-14", "1", "2", "3"}}, table.Records())
}

func TestConvertAHR999(t *testing.T) {
	table := convert(t, schema.AHR999Metric, `{
		"0":{"date":"2024-01-01","ahr999":0.45},
		"1":{"time":1704153600,"ahr999Index":"0.5"},
		"2":{"foo":1}
	}`)
	assert.Equal(t, [][]string{
		{"2024-01-01", "0.45"},
		{"2024-01-02", "0.5"},
		{"Unknown", "Unknown"},
	}, table.Records())
	assert.Zero(t, table.Skipped)

	table = convert(t, schema.AHR999Metric, `{"list":[{"timestamp":1704067200000,"ahr_index":1.1}]}`)
	assert.Equal(t, [][]string{{"2024-01-01", "1.1"}}, table.Records())

	err := convertErr(t, schema.AHR999Metric, `{"ahr999":1}`)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedShape)
}

func TestConvertSimpleRecordMetrics(t *testing.T) {
	tests := []struct {
		kind   schema.MetricKind
		raw    string
		header string
		want   [][]string
	}{
		{
			schema.MVRVZMetric,
			`[{"dateTime":1704067200000,"zScore":2.5},{"zScore":1}]`,
			"MVRV-Z Score",
			[][]string{{"2024-01-01", "2.5"}},
		},
		{
			schema.NUPLMetric,
			`{"timestamp":1704067200000,"index":0.55}`,
			"nupl Index",
			[][]string{{"2024-01-01", "0.55"}},
		},
		{
			schema.PuellMetric,
			`{"data":[{"createTime":1704067200000},{"createTime":1704153600000,"puellMultiple":0.8}]}`,
			"Puell Multiple",
			[][]string{{"2024-01-01", "Unknown"}, {"2024-01-02", "0.8"}},
		},
		{
			schema.AltSeasonMetric,
			`[{"timestamp":1704067200,"altcoinIndex":null},{"timestamp":0,"altcoinIndex":3}]`,
			"Altcoin Index",
			[][]string{{"2024-01-01", "Unknown"}},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			table := convert(t, tt.kind, tt.raw)
			assert.Equal(t, []string{"Date", tt.header}, table.Columns)
			assert.Equal(t, tt.want, table.Records())
		})
	}
}

func TestConvertReserveRisk(t *testing.T) {
	table := convert(t, schema.ReserveRiskMetric, `[
		{"timestamp":1704067200,"vocd":1.5,"reserveRiskIndex":0.0012345678912,"hodlBank":null}
	]`)
	assert.Equal(t, []string{"Date", "VOCD", "Reserve Risk Index", "HODL Bank", "MVOCD"}, table.Columns)
	assert.Equal(t, [][]string{{"2024-01-01", "1.50000000", "0.00123457", "NaN", "NaN"}}, table.Records())

	err := convertErr(t, schema.ReserveRiskMetric, `{"data":[]}`)
	assert.ErrorIs(t, err, ingest.ErrNotArray)
}

func TestConvertBubble(t *testing.T) {
	table := convert(t, schema.BubbleMetric, `{"data":[{"time":"2024-01-01","price":42000,"index":1.2},{"price":1}]}`)
	assert.Equal(t, [][]string{{"2024-01-01", "42000", "1.2", "", "", "", "", ""}}, table.Records())
	assert.Equal(t, 1, table.Skipped)
}

func TestConvertPiTop(t *testing.T) {
	table := convert(t, schema.PiTopMetric, `[
		{"createTime":1704067200000,"ma110":110,"ma350Mu2":100},
		{"createTime":1704153600000,"ma110":50},
		{"createTime":1704240000000,"ma110":50,"ma350Mu2":0},
		{"createTime":1704326400000,"ma110":0,"ma350Mu2":100},
		{"createTime":1704412800000,"ma110":"","ma350Mu2":null}
	]`)
	assert.Equal(t, "Distance_To_Top_Pct", table.Columns[3])
	assert.Equal(t, [][]string{
		{"2024-01-01", "110", "100", "10.00"},
		{"2024-01-02", "50", "Unknown", "Unknown"},
		{"2024-01-03", "50", "Unknown", "Unknown"},
		{"2024-01-04", "Unknown", "100", "Unknown"},
		{"2024-01-05", "Unknown", "Unknown", "Unknown"},
	}, table.Records())
}

func TestConvertRainbow(t *testing.T) {
	table := convert(t, schema.RainbowMetric, `[
		[100.123,"x",1,2,3,4,5,6,7,8,9,1704067200000],
		[1,2,3,4,5,6,7,8,9,10,11],
		[1,2,3,4,5,6,7,8,9,null,11],
		[1,2,3],
		{"not":"a row"}
	]`)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"100.12", "1.00", "2.00", "3.00", "4.00", "5.00", "6.00", "7.00", "8.00", "9.00", "2024-01-01"}, table.Records()[0])
	assert.Equal(t, []string{"1.00", "3.00", "4.00", "5.00", "6.00", "7.00", "8.00", "9.00", "10.00", "11.00", "N/A"}, table.Records()[1])
	assert.Equal(t, 3, table.Skipped)
	assert.Len(t, table.Columns, 11)
}

func TestConvertVolatility(t *testing.T) {
	table := convert(t, schema.VolatilityMetric, `{"time":[1704067200000,1704153600000],"bl":[55.5,"60"]}`)
	assert.Equal(t, [][]string{{"2024-01-01", "55.5"}, {"2024-01-02", "60"}}, table.Records())

	table = convert(t, schema.VolatilityMetric, `{"data":{"time":[1704067200000],"bl":[1],"unit":"pct"}}`)
	assert.Equal(t, [][]string{{"2024-01-01", "1"}}, table.Records())

	err := convertErr(t, schema.VolatilityMetric, `{"time":[1,2],"bl":[1]}`)
	assert.ErrorIs(t, err, ingest.ErrRaggedColumns)

	err = convertErr(t, schema.VolatilityMetric, `{"time":[1]}`)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedShape)

	err = convertErr(t, schema.VolatilityMetric, `[1,2]`)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedShape)
}

func TestConvertFNGParallel(t *testing.T) {
	table := convert(t, schema.FNGMetric, `[{"dates":[1704067200000,1704153600000,1704240000000],"fngValues":[20,30]}]`)
	assert.Equal(t, [][]string{{"2024-01-01", "20"}, {"2024-01-02", "30"}}, table.Records())
	assert.Equal(t, 1, table.Skipped)
	assert.Contains(t, table.Notes, "values read from fngValues")

	err := convertErr(t, schema.FNGMetric, `[{"dates":[1]}]`)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedShape)
}

func TestConvertFNGRecords(t *testing.T) {
	table := convert(t, schema.FNGMetric, `[
		{"timestamp":1704067200,"value":"25"},
		{"date":"2024-01-02","fng":40},
		{"date":"2024-01-03"},
		{"value":3}
	]`)
	assert.Equal(t, [][]string{{"2024-01-01", "25"}, {"2024-01-02", "40"}, {"2024-01-03", "Unknown"}}, table.Records())
	assert.Equal(t, 1, table.Skipped)
}

func TestConvertFNGEdgeShapes(t *testing.T) {
	table := convert(t, schema.FNGMetric, `[]`)
	assert.Empty(t, table.Rows)

	err := convertErr(t, schema.FNGMetric, `[{"score":1}]`)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedShape)

	err = convertErr(t, schema.FNGMetric, `{"timestamp":1,"value":2}`)
	assert.ErrorIs(t, err, ingest.ErrNotArray)
}

func TestConvertMVRV(t *testing.T) {
	table := convert(t, schema.MVRVMetric, `[
		{"createTime":1704067200000,"price":42000.123,"mvrvRatio":1.23456,"marketCap":8e11,"note":"x"},
		{"createTime":1704153600000,"price":null}
	]`)
	assert.Equal(t, []string{"createTime", "price", "mvrvRatio", "marketCap", "note"}, table.Columns)
	assert.Equal(t, [][]string{
		{"2024-01-01", "42000.12", "1.2346", "800000000000.00", "x"},
		{"2024-01-02", "", "", "", ""},
	}, table.Records())
	assert.Equal(t, "2024-01-02", table.LastDate())

	err := convertErr(t, schema.MVRVMetric, `[]`)
	assert.ErrorIs(t, err, ingest.ErrUnsupportedShape)
}

func TestConvertLTH(t *testing.T) {
	table := convert(t, schema.LTHMetric, `[
		{"timestamp":1704067200,"price":100,"supply":10000000},
		{"timestamp":1704153600,"price":1000,"supply":10000000},
		{"timestamp":0,"price":1,"supply":1},
		{"timestamp":1704240000,"price":5}
	]`)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Skipped)

	first := table.Rows[0].Cells
	assert.Equal(t, "2024-01-01", first[0].Text)
	assert.Equal(t, "100", first[1].Text)
	assert.Equal(t, "10000000", first[2].Text)
	assert.InDelta(t, 2.0, *first[3].Num, 1e-12)
	assert.InDelta(t, 1.0, *first[4].Num, 1e-12)
	assert.InDelta(t, 0.5, *first[5].Num, 1e-12)
	assert.InDelta(t, -0.5, *table.Rows[1].Cells[5].Num, 1e-12)

	assert.Contains(t, table.Notes, "baseline log ratio: -1.5000")
	assert.Contains(t, table.Notes, "date range: 2024-01-01 to 2024-01-02")
}

func TestConvertLTHEmpty(t *testing.T) {
	table := convert(t, schema.LTHMetric, `[{"timestamp":1}]`)
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Notes)
	assert.Equal(t, 1, table.Skipped)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nupl.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"timestamp":1704067200000,"index":0.5}]`), 0o644))

	table, err := ConvertFile(schema.NUPLMetric, path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"data":[]}`), 0o644))
	_, err = ConvertFile(schema.ReserveRiskMetric, bad)
	assert.ErrorIs(t, err, ingest.ErrNotArray)

	_, err = ConvertFile(schema.NUPLMetric, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
