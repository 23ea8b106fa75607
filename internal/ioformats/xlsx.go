package ioformats

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"og-scraper/internal/models"
)

const xlsxSheet = "scrapes"

// excel rejects longer cells
const maxCellLength = 32767

var xlsxColumns = []string{
	"source_url", "request_url", "fetch_ms", "class", "topics",
	"og_title", "og_type", "og_url", "og_site_name", "og_description",
	"og_image", "twitter_card", "error_kind", "error",
}

// XLSXWriter streams records into a single-sheet workbook that is written
// to the underlying writer on Close.
type XLSXWriter struct {
	out  io.Writer
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

func NewXLSXWriter(w io.Writer) (*XLSXWriter, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), xlsxSheet)
	sw, err := f.NewStreamWriter(xlsxSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx stream: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	header := make([]interface{}, len(xlsxColumns))
	for i, c := range xlsxColumns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: style}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx header: %w", err)
	}
	return &XLSXWriter{out: w, file: f, sw: sw, row: 2}, nil
}

func (w *XLSXWriter) Write(rec models.ScrapeRecord) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.sw.SetRow(cell, xlsxRow(rec)); err != nil {
		return fmt.Errorf("xlsx row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

// Close flushes the sheet and writes the workbook.
func (w *XLSXWriter) Close() error {
	defer w.file.Close()
	if err := w.sw.Flush(); err != nil {
		return fmt.Errorf("xlsx flush: %w", err)
	}
	if err := w.file.Write(w.out); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func xlsxRow(rec models.ScrapeRecord) []interface{} {
	var (
		requestURL, title, ogType, ogURL, site, desc, image, card string
	)
	if r := rec.Result; r != nil {
		requestURL = r.RequestURL
		title, ogType, ogURL, site, desc = r.Title(), r.Type(), r.URL(), r.SiteName(), r.Description()
		if len(r.OGImage) > 0 {
			image = r.OGImage[0].URL
		}
		card, _ = r.Get("twitterCard")
	}
	row := []interface{}{
		rec.SourceURL, requestURL, rec.FetchMs, rec.Class.Label, strings.Join(rec.Topics, ", "),
		title, ogType, ogURL, site, desc,
		image, card, rec.ErrorKind, rec.Error,
	}
	for i, v := range row {
		if s, ok := v.(string); ok && len(s) > maxCellLength {
			row[i] = s[:maxCellLength]
		}
	}
	return row
}
