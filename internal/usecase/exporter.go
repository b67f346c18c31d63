package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"catalogview-backend/internal/domain"
)

// csvHeader is the fixed column order of the export format.
var csvHeader = []string{"id", "title", "price", "category", "description", "image"}

// ExportArtifact is a rendered CSV export of one page window.
type ExportArtifact struct {
	Filename string
	Content  []byte
}

// ExportCSV serializes exactly the current page window — not the whole
// filtered list, not the whole catalog — using the same window arithmetic
// as Paginate. Every field is double-quoted with inner quotes doubled,
// rows are joined with CRLF, and the filename encodes the page number and
// the date as YYYYMMDD. An empty window returns ErrExportNoData.
func ExportCSV(list []domain.Product, page, perPage int, now time.Time) (*ExportArtifact, error) {
	window := Paginate(list, page, perPage)
	if len(window.Items) == 0 {
		return nil, domain.ErrExportNoData
	}

	rows := make([]string, 0, len(window.Items)+1)
	rows = append(rows, csvRow(csvHeader))
	for _, p := range window.Items {
		price := ""
		if p.Price != nil {
			price = strconv.FormatFloat(*p.Price, 'f', -1, 64)
		}
		rows = append(rows, csvRow([]string{
			strconv.Itoa(p.ID),
			p.Title,
			price,
			p.CategoryName(),
			p.Description,
			p.PrimaryImage(),
		}))
	}

	return &ExportArtifact{
		Filename: fmt.Sprintf("products-page-%d-%s.csv", window.Pagination.CurrentPage, now.Format("20060102")),
		Content:  []byte(strings.Join(rows, "\r\n")),
	}, nil
}

// csvRow quotes every field unconditionally; encoding/csv only quotes on
// demand and cannot emit this format.
func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
