package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fgperfume/internal/models"

	"github.com/xuri/excelize/v2"
)

const queryLogSheet = "Queries"

// ExportQueryLogsXLSX writes the query log, newest first, as a workbook
func (s *CatalogService) ExportQueryLogsXLSX(ctx context.Context) ([]byte, error) {
	logs, err := s.ListQueryLogs(ctx)
	if err != nil {
		return nil, err
	}
	return QueryLogWorkbook(logs, time.UTC)
}

// QueryLogWorkbook renders logs into a single-sheet XLSX file. Timestamps
// are written in loc.
func QueryLogWorkbook(logs []models.UserQueryLog, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", queryLogSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"ID", "Query", "Timestamp"}
	if err := f.SetSheetRow(queryLogSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(queryLogSheet, "A1", "C1", bold)
	}
	_ = f.SetColWidth(queryLogSheet, "B", "B", 80)
	_ = f.SetColWidth(queryLogSheet, "C", "C", 22)

	for i, entry := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			entry.ID,
			entry.Query,
			time.UnixMilli(entry.Timestamp).In(loc).Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(queryLogSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
