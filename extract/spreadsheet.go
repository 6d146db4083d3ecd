package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	maxHeaderColumns = 10
	maxSampleRows    = 5
	maxSampleColumns = 5
)

// extractSpreadsheet summarizes the active sheet of a workbook: sheet name,
// header row, and a handful of sample rows. A full dump would drown the
// analyzer in cell noise; the header row carries most of the naming signal.
func extractSpreadsheet(path string, limits Limits) (string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(workbook.GetActiveSheetIndex())
	if sheet == "" {
		sheet = workbook.GetSheetName(0)
	}

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Sheet: %s\n\n", sheet)

	if len(rows) > 0 {
		headers := rows[0]
		if len(headers) > maxHeaderColumns {
			headers = headers[:maxHeaderColumns]
		}
		fmt.Fprintf(&sb, "Columns: %s\n\n", strings.Join(headers, ", "))
	}

	sb.WriteString("Sample data:\n")
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if i > maxSampleRows {
			break
		}
		if len(row) > maxSampleColumns {
			row = row[:maxSampleColumns]
		}
		if isBlankRow(row) {
			continue
		}
		fmt.Fprintf(&sb, "Row %d: %s\n", i, strings.Join(row, " | "))
	}

	return sb.String(), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
