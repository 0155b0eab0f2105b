package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"fgperfume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestQueryLogWorkbook(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC).UnixMilli()
	data, err := QueryLogWorkbook([]models.UserQueryLog{
		{ID: "2", Query: "Which perfume suits evenings?", Timestamp: ts},
		{ID: "1", Query: "Harga Noir Essence?", Timestamp: ts - 1000},
	}, time.UTC)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(queryLogSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Query", "Timestamp"}, rows[0])
	assert.Equal(t, []string{"2", "Which perfume suits evenings?", "2025-03-01 09:30:00"}, rows[1])
	assert.Equal(t, "1", rows[2][0])
}

func TestExportQueryLogsXLSX(t *testing.T) {
	ctx := context.Background()
	svc := newCatalog(t)

	data, err := svc.ExportQueryLogsXLSX(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(queryLogSheet)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
	assert.Equal(t, "Query", rows[0][1])
}
