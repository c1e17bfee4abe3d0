// Package export renders the vocabulary list as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/models"
)

// SheetName is the worksheet holding the list.
const SheetName = "Vocabulary"

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes one header row and one row per entry, in list order.
func WriteXLSX(w io.Writer, entries []models.VocabEntry, msgs *i18n.Translator) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("export: stream writer: %w", err)
	}
	if err := sw.SetColWidth(2, 3, 24); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	if err := sw.SetColWidth(5, 5, 60); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}

	header := []any{
		msgs.T(i18n.UIColNo),
		msgs.T(i18n.UIColEnglish),
		msgs.T(i18n.UIColIndonesian),
		msgs.T(i18n.UIColStatus),
		msgs.T(i18n.UIColNote),
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}

	for i, e := range entries {
		status := msgs.T(i18n.UIStatusLearning)
		if e.IsMemorized {
			status = msgs.T(i18n.UIStatusMemorized)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{i + 1, e.English, e.Indonesian, status, e.Note}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path.
func SaveXLSX(path string, entries []models.VocabEntry, msgs *i18n.Translator) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteXLSX(f, entries, msgs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
