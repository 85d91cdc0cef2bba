package export_test

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agridash/internal/dataset/generator"
	"agridash/internal/dataset/models"
	"agridash/internal/export"
)

func sampleSnapshot() *models.Snapshot {
	return generator.New(models.DefaultConfig()).Generate(77)
}

func TestWriteCSVHeaderAndOrder(t *testing.T) {
	snap := sampleSnapshot()
	table := export.IVSTable(snap.IVS)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, table))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(snap.IVS)+1)

	assert.Equal(t, table.Header, records[0])

	// Rows come out in generation order, fields in generation order.
	first := records[1]
	assert.Equal(t, snap.IVS[0].Region.String(), first[0])
	assert.Equal(t, strconv.Itoa(snap.IVS[0].Year), first[1])
	assert.Equal(t, strconv.Itoa(snap.IVS[0].FarmersTrained), first[2])
}

func TestWriteCSVDerivedYieldGainColumn(t *testing.T) {
	rows := []models.IVSRecord{{
		Region: models.RegionBo, Year: 2020,
		FarmersTrained: 100, WomenPct: 50, YouthPct: 30,
		HectaresDeveloped: 20, YieldBefore: 2.0, YieldAfter: 1.5,
	}}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, export.IVSTable(rows)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "-25.00", records[1][8], "negative gains export as-is")
}

func TestWriteCSVEmptyTableHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, export.VegetableTable(nil)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	table := export.TreeCropTable(snap.TreeCrops)

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.TableTreeCrops)
	require.NoError(t, err)
	require.Len(t, rows, len(snap.TreeCrops)+1)
	assert.Equal(t, table.Header, rows[0])
	assert.Equal(t, snap.TreeCrops[0].Region.String(), rows[1][0])
}

func TestTablesCoverAllFields(t *testing.T) {
	snap := sampleSnapshot()

	assert.Len(t, export.IVSTable(snap.IVS).Header, 9)
	assert.Len(t, export.TreeCropTable(snap.TreeCrops).Header, 6)
	assert.Len(t, export.VegetableTable(snap.Vegetables).Header, 5)

	for _, table := range []export.Table{
		export.IVSTable(snap.IVS),
		export.TreeCropTable(snap.TreeCrops),
		export.VegetableTable(snap.Vegetables),
	} {
		for i, row := range table.Rows {
			assert.Len(t, row, len(table.Header), "table %s row %d", table.Name, i)
		}
	}
}
