package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelExporter_Customers(t *testing.T) {
	visit := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	items := []dto.CustomerView{
		{Customer: entity.Customer{Name: "Ayu", Phone: "+6281234567", TotalVisits: 6, TotalSpent: decimal.NewFromInt(5_500_000), LastVisitAt: &visit, CreatedAt: visit},
			Segments: []string{entity.SegmentLoyal, entity.SegmentVIP}},
		{Customer: entity.Customer{Name: "Budi", Phone: "+6281299999", CreatedAt: visit}, Segments: []string{entity.SegmentInactive}},
	}
	out, err := NewExcelExporter().Customers(context.Background(), items, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(customersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, customerColumns, rows[0])
	assert.Equal(t, "Ayu", rows[1][0])
	assert.Equal(t, "2026-09-01", rows[1][7])
	assert.Equal(t, "loyal, vip", rows[1][9])
	assert.Equal(t, "Budi", rows[2][0])

	raw, err := f.GetCellValue(customersSheet, "G2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "5500000", raw)
}

func TestExcelExporter_EmptyList(t *testing.T) {
	out, err := NewExcelExporter().Customers(context.Background(), nil, time.Now())
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(customersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
