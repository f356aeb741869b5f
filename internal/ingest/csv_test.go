package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,name,price,unit,category,image
2024-01-01,Rice,70,1 kg,Grains,rice.jpg
2024-01-02,Rice,72,1 kg,Grains,rice.jpg
2024-01-01,Soybean Oil,150,1 liter,Oil,oil.jpg
`

func TestParseCSV(t *testing.T) {
	records, skipped, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 3)

	r := records[0]
	assert.Equal(t, "2024-01-01", r.Date.String())
	assert.Equal(t, "Rice", r.Name)
	assert.Equal(t, 70.0, r.Price)
	assert.Equal(t, "1 kg", r.Unit)
	assert.Equal(t, "Grains", r.Category)
	assert.Equal(t, "rice.jpg", r.Image)
}

func TestParseCSVSkipsMalformedRows(t *testing.T) {
	in := `date,name,price,unit,category,image
2024-01-01,Rice,70,1 kg,Grains,rice.jpg
not-a-date,Rice,70,1 kg,Grains,rice.jpg
2024-01-02,Rice,not-a-price,1 kg,Grains,rice.jpg
2024-01-03,,70,1 kg,Grains,rice.jpg
2024-01-04,Rice,-5,1 kg,Grains,rice.jpg
2024-01-05,Rice,75,1 kg,Grains,rice.jpg
`
	records, skipped, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, 75.0, records[1].Price)
}

func TestParseCSVRejectsWrongHeader(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader("name,date,price,unit,category,image\n"))
	require.Error(t, err)
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}
