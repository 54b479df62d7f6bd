package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nordprofil/offertpipe/internal/domain"
)

func TestFlatten(t *testing.T) {
	q := domain.Quote{
		Metadata: map[string]any{
			"offert":       "Offert 2024-117",
			"Datum":        "2024-03-11",
			"Vår referens": "L. Nilsson",
			"Er referens":  "M. Berg",
			"Kund":         "Berg & Söner AB",
		},
		Products: []map[string]any{
			{
				"Profil nr/Kund ref": "PX-12",
				"Vikt kg/m":          1.342,
				"Legering":           "parsed default",
			},
			{
				"Profil nr/Kund ref": "PX-13",
				"Vikt kg/m":          0.98,
				"Legering":           "parsed default",
			},
		},
		Conditions: map[string]any{
			"Verktygskostnad": "25 000 SEK",
			"Legering":        "Aluminium 6061 T6",
			"Toleranser":      "ISO 2768-m",
		},
	}

	rows := Flatten(q)
	require.Len(t, rows, 2)

	// Shared metadata and conditions repeat on every row.
	for i, row := range rows {
		v, _ := row.Get("Kund")
		assert.Equal(t, "Berg & Söner AB", v, "row %d", i)
		v, _ = row.Get("Verktygskostnad")
		assert.Equal(t, "25 000 SEK", v, "row %d", i)
	}

	v, _ := rows[0].Get("Profil nr/Kund ref")
	assert.Equal(t, "PX-12", v)
	v, _ = rows[1].Get("Profil nr/Kund ref")
	assert.Equal(t, "PX-13", v)

	// The condition alloy overwrites the product alloy without moving the
	// column, so Legering sits in its product-section position.
	v, _ = rows[0].Get("Legering")
	assert.Equal(t, "Aluminium 6061 T6", v)
	keys := rows[0].Keys()
	assert.Equal(t, []string{
		"offert", "Datum", "Vår referens", "Er referens", "Kund",
		"Profil nr/Kund ref", "Vikt kg/m", "Legering",
		"Verktygskostnad", "Toleranser",
	}, keys)
}

func recordFromJSON(t *testing.T, src string) *domain.FlatRecord {
	t.Helper()
	var rec domain.FlatRecord
	require.NoError(t, json.Unmarshal([]byte(src), &rec))
	return &rec
}

func TestAssemble_ImputesColumnMean(t *testing.T) {
	rows := Assemble([]*domain.FlatRecord{
		recordFromJSON(t, `{"Vikt_kg_m": 1.0, "Pris_kr_st_SEK": 10}`),
		recordFromJSON(t, `{"Vikt_kg_m": 3.0, "Pris_kr_st_SEK": 20}`),
		recordFromJSON(t, `{"Vikt_kg_m": null, "Pris_kr_st_SEK": 30}`),
	})

	v, _ := rows[2].Get("Vikt_kg_m")
	assert.Equal(t, 2.0, v)

	// Present values stay untouched.
	v, _ = rows[0].Get("Vikt_kg_m")
	f, ok := domain.AsFloat(v)
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestAssemble_ClipsToPercentileBand(t *testing.T) {
	records := make([]*domain.FlatRecord, 0, 20)
	for i := 1; i <= 19; i++ {
		records = append(records, recordFromJSON(t,
			fmt.Sprintf(`{"Längd_m_m": %d, "Pris_kr_st_SEK": 10}`, i)))
	}
	records = append(records, recordFromJSON(t, `{"Längd_m_m": 1000, "Pris_kr_st_SEK": 10}`))

	rows := Assemble(records)

	v, _ := rows[19].Get("Längd_m_m")
	f, ok := domain.AsFloat(v)
	require.True(t, ok)
	assert.Equal(t, 19.0, f)

	// Mid-band values survive as-is.
	v, _ = rows[9].Get("Längd_m_m")
	f, _ = domain.AsFloat(v)
	assert.Equal(t, 10.0, f)
}

func TestAssemble_TargetMeanEncoding(t *testing.T) {
	rows := Assemble([]*domain.FlatRecord{
		recordFromJSON(t, `{"Kund": "A", "Pris_kr_st_SEK": 10}`),
		recordFromJSON(t, `{"Kund": "A", "Pris_kr_st_SEK": 20}`),
		recordFromJSON(t, `{"Kund": "B", "Pris_kr_st_SEK": 30}`),
	})

	v, _ := rows[0].Get("Kund")
	assert.Equal(t, 15.0, v)
	v, _ = rows[1].Get("Kund")
	assert.Equal(t, 15.0, v)
	v, _ = rows[2].Get("Kund")
	assert.Equal(t, 30.0, v)
}

func TestAssemble_PricePerKg(t *testing.T) {
	rows := Assemble([]*domain.FlatRecord{
		recordFromJSON(t, `{"Vikt_kg_m": 1.342, "Längd_m_m": 23.8, "Pris_kr_st_SEK": 42.5}`),
		recordFromJSON(t, `{"Vikt_kg_m": 1.342, "Längd_m_m": 23.8}`),
	})

	v, ok := rows[0].Get(PricePerKg)
	require.True(t, ok)
	assert.Equal(t, 1.3306, v)

	// Rows without a price keep the column, with no value.
	v, ok = rows[1].Get(PricePerKg)
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	in := recordFromJSON(t, `{"Kund": "A", "Vikt_kg_m": null, "Pris_kr_st_SEK": 10}`)
	Assemble([]*domain.FlatRecord{in})

	v, _ := in.Get("Kund")
	assert.Equal(t, "A", v)
	v, _ = in.Get("Vikt_kg_m")
	assert.Nil(t, v)
	assert.False(t, in.Has(PricePerKg))
}

func TestHeader_UnionInFirstSeenOrder(t *testing.T) {
	rows := []*domain.FlatRecord{
		recordFromJSON(t, `{"a": 1, "b": 2}`),
		recordFromJSON(t, `{"a": 1, "c": 3}`),
	}
	assert.Equal(t, []string{"a", "b", "c"}, Header(rows))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "processed_quotes.csv")
	rows := []*domain.FlatRecord{
		recordFromJSON(t, `{"Kund": "Berg & Söner AB", "Vikt_kg_m": 1.342, "pris_per_kg": null}`),
		recordFromJSON(t, `{"Kund": "Ek AB", "Vikt_kg_m": 0.98, "pris_per_kg": 1.5}`),
	}
	require.NoError(t, WriteCSV(path, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Kund", "Vikt_kg_m", "pris_per_kg"}, got[0])
	assert.Equal(t, []string{"Berg & Söner AB", "1.342", ""}, got[1])
	assert.Equal(t, []string{"Ek AB", "0.98", "1.5"}, got[2])
}

func TestWriteRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rows")
	rows := []*domain.FlatRecord{
		recordFromJSON(t, `{"offert": "A"}`),
		recordFromJSON(t, `{"offert": "B"}`),
	}

	paths, err := WriteRows(dir, rows)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "quote_0.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "quote_1.json"), paths[1])

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	var rec domain.FlatRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	v, _ := rec.Get("offert")
	assert.Equal(t, "B", v)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_quotes.xlsx")
	rows := []*domain.FlatRecord{
		recordFromJSON(t, `{"Kund": "Berg & Söner AB", "Vikt_kg_m": 1.342}`),
	}
	require.NoError(t, WriteXLSX(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Dataset")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Kund", "Vikt_kg_m"}, got[0])
	assert.Equal(t, "Berg & Söner AB", got[1][0])
	assert.Equal(t, "1.342", got[1][1])
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")
	rows := []*domain.FlatRecord{
		recordFromJSON(t, `{"Kund": "Berg & Söner AB", "Vikt_kg_m": 1.342, "NOT": 5000}`),
		recordFromJSON(t, `{"Kund": "Ek AB", "Vikt_kg_m": 0.98, "NOT": 1000}`),
	}
	require.NoError(t, WriteSQLite(context.Background(), path, rows))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM flat_records").Scan(&count))
	assert.Equal(t, 2, count)

	var weight float64
	var minOrder int64
	require.NoError(t, db.QueryRow(
		`SELECT "Vikt_kg_m", "NOT" FROM flat_records WHERE "Kund" = ?`,
		"Berg & Söner AB",
	).Scan(&weight, &minOrder))
	assert.Equal(t, 1.342, weight)
	assert.Equal(t, int64(5000), minOrder)
}

func TestWriteSQLite_RerunOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")
	rows := []*domain.FlatRecord{recordFromJSON(t, `{"Kund": "A"}`)}
	require.NoError(t, WriteSQLite(context.Background(), path, rows))
	require.NoError(t, WriteSQLite(context.Background(), path, rows))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM flat_records").Scan(&count))
	assert.Equal(t, 1, count)
}
