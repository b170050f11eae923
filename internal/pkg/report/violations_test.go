package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/silani/discipline/internal/app/models"
)

func strPtr(s string) *string { return &s }

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheetName, axis)
	require.NoError(t, err)
	return v
}

func TestWriteViolationReport(t *testing.T) {
	officerID := int64(2)
	ptsVal := 15
	items := []*models.ViolationDetail{
		{
			Violation: models.Violation{
				ID:          1,
				OfficerID:   &officerID,
				Status:      models.ViolationPending,
				Description: "Tidak masuk tanpa izin",
				OccurredAt:  time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC),
			},
			StudentName: strPtr("Budi Santoso"),
			StudentNISN: strPtr("0051234567"),
			RuleName:    strPtr("Bolos"),
			RulePoints:  &ptsVal,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteViolationReport(&buf, "LAPORAN PELANGGARAN SISWA 2025", items))

	f := openWorkbook(t, &buf)
	assert.Equal(t, "LAPORAN PELANGGARAN SISWA 2025", cell(t, f, "A1"))
	assert.Equal(t, "Nama", cell(t, f, "B3"))
	assert.Equal(t, "1", cell(t, f, "A4"))
	assert.Equal(t, "Budi Santoso", cell(t, f, "B4"))
	assert.Equal(t, "-", cell(t, f, "D4"))
	assert.Equal(t, "15", cell(t, f, "F4"))
	assert.Equal(t, models.ViolationPending.Label(), cell(t, f, "G4"))
	assert.Equal(t, "14-03-2025 07:30", cell(t, f, "H4"))
	assert.Equal(t, "2", cell(t, f, "I4"))
}

func TestWriteViolationReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteViolationReport(&buf, "Laporan", nil))

	f := openWorkbook(t, &buf)
	assert.Equal(t, "Tidak ada data.", cell(t, f, "A4"))
}
