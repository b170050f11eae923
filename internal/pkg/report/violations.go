// Package report renders violation listings as spreadsheets.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/silani/discipline/internal/app/models"
)

// ContentTypeXLSX is the media type of the workbooks written here
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetName = "Laporan"
	timeCell  = "02-01-2006 15:04"
	headerRow = 3
)

var headers = []string{"No", "Nama", "NISN", "Kelas", "Pelanggaran", "Poin", "Status", "Waktu", "Petugas", "Keterangan"}

// WriteViolationReport writes items as a single-sheet workbook with a title
// row. An empty listing still produces the header and a "no data" row.
func WriteViolationReport(w io.Writer, title string, items []*models.ViolationDetail) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	if len(items) == 0 {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", headerRow+1), "Tidak ada data."); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	for i, item := range items {
		row := headerRow + 1 + i
		values := []interface{}{
			i + 1,
			orDash(item.StudentName),
			orDash(item.StudentNISN),
			orDash(item.ClassName),
			orDash(item.RuleName),
			points(item.RulePoints),
			item.Status.Label(),
			item.OccurredAt.Format(timeCell),
			officer(item.OfficerID),
			item.Description,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func points(p *int) interface{} {
	if p == nil {
		return 0
	}
	return *p
}

func officer(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
