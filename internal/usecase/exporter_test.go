package usecase

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"catalogview-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportDate = time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)

func TestExportCSVFormat(t *testing.T) {
	price := 19.5
	products := []domain.Product{
		{
			ID:          7,
			Title:       `Red "Deluxe" Shoe`,
			Price:       &price,
			Description: "A shoe, quoted.",
			Category:    &domain.Category{Name: "Shoes"},
			Images:      []string{`["https://img.example/shoe.png"`, "https://img.example/side.png"},
		},
		{
			ID:     8,
			Title:  "Bare Record",
			Images: nil, // no price, category, description, or image
		},
	}

	artifact, err := ExportCSV(products, 1, 10, exportDate)
	require.NoError(t, err)

	assert.Equal(t, "products-page-1-20260828.csv", artifact.Filename)

	want := strings.Join([]string{
		`"id","title","price","category","description","image"`,
		`"7","Red ""Deluxe"" Shoe","19.5","Shoes","A shoe, quoted.","https://img.example/shoe.png"`,
		`"8","Bare Record","","","",""`,
	}, "\r\n")
	assert.Equal(t, want, string(artifact.Content))
}

func TestExportCSVExactWindowOnly(t *testing.T) {
	artifact, err := ExportCSV(fixtureList(25), 2, 10, exportDate)
	require.NoError(t, err)

	lines := strings.Split(string(artifact.Content), "\r\n")
	require.Len(t, lines, 11, "one header row plus exactly the page window")
	assert.Equal(t, `"11","product 11","11","misc","",""`, lines[1])
	assert.Equal(t, `"20","product 20","20","misc","",""`, lines[10])
	assert.Equal(t, "products-page-2-20260828.csv", artifact.Filename)
}

func TestExportCSVClampsStalePage(t *testing.T) {
	// A page pointer past the end exports the last page, mirroring the
	// paginator's clamp, and the filename reflects the effective page.
	artifact, err := ExportCSV(fixtureList(25), 9, 10, exportDate)
	require.NoError(t, err)

	lines := strings.Split(string(artifact.Content), "\r\n")
	assert.Len(t, lines, 6)
	assert.Equal(t, "products-page-3-20260828.csv", artifact.Filename)
}

func TestExportCSVEmptyWindow(t *testing.T) {
	artifact, err := ExportCSV(nil, 1, 10, exportDate)
	assert.Nil(t, artifact)
	assert.ErrorIs(t, err, domain.ErrExportNoData)
}

func TestExportCSVRoundTrip(t *testing.T) {
	p1, p2 := 10.0, 0.99
	products := []domain.Product{
		{
			ID:          1,
			Title:       `Comma, and "quotes"`,
			Price:       &p1,
			Description: "line one",
			Category:    &domain.Category{Name: "Odd, Category"},
			Images:      []string{`"https://cdn.example/a.png"]`},
		},
		{
			ID:          2,
			Title:       "Plain",
			Price:       &p2,
			Description: "",
			Category:    nil,
			Images:      []string{"https://cdn.example/b.png"},
		},
	}

	artifact, err := ExportCSV(products, 1, 10, exportDate)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(artifact.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "title", "price", "category", "description", "image"}, records[0])

	for i, p := range products {
		row := records[i+1]
		assert.Equal(t, strconv.Itoa(p.ID), row[0])
		assert.Equal(t, p.Title, row[1])
		assert.Equal(t, strconv.FormatFloat(*p.Price, 'f', -1, 64), row[2])
		assert.Equal(t, p.CategoryName(), row[3])
		assert.Equal(t, p.Description, row[4])
		assert.Equal(t, p.PrimaryImage(), row[5])
	}
}
