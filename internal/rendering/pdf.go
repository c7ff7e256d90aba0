package rendering

import (
	"bytes"
	"fmt"
	"image"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/storekit/sales-reporter/internal/types"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ContentType of the rendered document.
const ContentType = "application/pdf"

// Table geometry in millimeters on an A4 portrait page.
const (
	colRankW  = 15.0
	colNameW  = 75.0
	colImageW = 45.0
	colQtyW   = 40.0

	headerH = 8.0
	rowH    = 25.0

	// Fixed image geometry within its cell.
	imageW       = 28.0
	imageH       = 21.0
	imageOffsetX = 8.5
	imageOffsetY = 2.0

	// Start a new page when a row would cross this y.
	pageBreakY = 270.0
)

// Row is the fully computed layout data for one table row. Image bytes
// are already associated with their row; the draw pass below has no
// lookup logic of its own.
type Row struct {
	Rank      int
	Name      string
	Quantity  int
	Image     []byte
	ImageType string // fpdf image type: "PNG", "JPG", "GIF"; empty when no image
}

// BuildRows computes the row layout for a ranked selection, pairing
// each entry with its fetched asset by product id. Assets that are
// missing or whose bytes do not decode yield a row with no image; the
// cell renders blank rather than failing.
func BuildRows(selection types.RankedSelection, assets map[string]*types.ImageAsset) []Row {
	rows := make([]Row, 0, len(selection))
	for i, item := range selection {
		row := Row{
			Rank:     i + 1,
			Name:     item.Name,
			Quantity: item.Quantity,
		}
		if asset := assets[item.ProductID]; asset.Present() {
			if imgType, ok := detectImageType(asset.Data); ok {
				row.Image = asset.Data
				row.ImageType = imgType
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Render produces the report PDF: a title line, a window subtitle, and
// a bordered table with one row per entry. An empty row set produces a
// document with the header only.
func Render(title, windowLabel string, rows []Row) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, windowLabel, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	drawTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 11)
	for i, row := range rows {
		if pdf.GetY()+rowH > pageBreakY {
			pdf.AddPage()
			drawTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 11)
		}

		y := pdf.GetY()
		pdf.CellFormat(colRankW, rowH, strconv.Itoa(row.Rank), "1", 0, "CM", false, 0, "")
		pdf.CellFormat(colNameW, rowH, row.Name, "1", 0, "LM", false, 0, "")

		imgX := pdf.GetX()
		pdf.CellFormat(colImageW, rowH, "", "1", 0, "", false, 0, "")
		pdf.CellFormat(colQtyW, rowH, strconv.Itoa(row.Quantity), "1", 1, "CM", false, 0, "")

		if len(row.Image) > 0 {
			name := fmt.Sprintf("row-image-%d", i)
			opts := fpdf.ImageOptions{ImageType: row.ImageType}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(row.Image))
			pdf.ImageOptions(name, imgX+imageOffsetX, y+imageOffsetY, imageW, imageH, false, opts, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Message: "failed to produce PDF output", Cause: err}
	}
	return buf.Bytes(), nil
}

func drawTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colRankW, headerH, "Rank", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colNameW, headerH, "Item Name", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colImageW, headerH, "Image", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colQtyW, headerH, "Quantity Sold", "1", 1, "C", true, 0, "")
}

// detectImageType sniffs the image format and maps it to fpdf's type
// names. Unknown formats are dropped so the draw pass never errors on
// bad bytes.
func detectImageType(data []byte) (string, bool) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	switch format {
	case "png":
		return "PNG", true
	case "jpeg":
		return "JPG", true
	case "gif":
		return "GIF", true
	default:
		return "", false
	}
}
