package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/braiinybear/backoffice-service/internal/models"
)

const (
	exportSheet     = "Registrations"
	exportBatchSize = 500
	maxExportRows   = 50000
)

var exportColumns = []struct {
	Header string
	Value  func(*models.Registration) interface{}
}{
	{"Name", func(r *models.Registration) interface{} { return r.Name }},
	{"Email", func(r *models.Registration) interface{} {
		if r.Email == nil {
			return ""
		}
		return *r.Email
	}},
	{"Phone", func(r *models.Registration) interface{} { return r.PhoneNo }},
	{"Father's Name", func(r *models.Registration) interface{} { return r.FatherName }},
	{"Mother's Name", func(r *models.Registration) interface{} { return r.MotherName }},
	{"Course", func(r *models.Registration) interface{} { return r.CourseName }},
	{"Aadhaar No", func(r *models.Registration) interface{} { return r.AadharCardNo }},
	{"Address", func(r *models.Registration) interface{} { return r.Address }},
	{"Payment Status", func(r *models.Registration) interface{} { return string(r.PaymentStatus) }},
	{"Marksheets", func(r *models.Registration) interface{} { return strings.Join(r.Marksheets, "\n") }},
	{"Registered At", func(r *models.Registration) interface{} { return r.CreatedAt.UTC().Format(time.DateTime) }},
}

// Export writes the filtered roster as an XLSX workbook. Pagination fields of
// req are ignored; every matching row is written, newest first.
func (s *registrationService) Export(ctx context.Context, req *RegistrationListRequest, w io.Writer) error {
	filters, err := s.filters(req)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, c := range exportColumns {
		if err := setCell(f, col+1, 1, c.Header); err != nil {
			return err
		}
	}

	row := 2
	for offset := 0; offset < maxExportRows; offset += exportBatchSize {
		filters.Limit = exportBatchSize
		filters.Offset = offset

		regs, _, err := s.repo.Registration().List(ctx, filters)
		if err != nil {
			return fmt.Errorf("failed to load registrations for export: %w", err)
		}

		for _, reg := range regs {
			for col, c := range exportColumns {
				if err := setCell(f, col+1, row, c.Value(reg)); err != nil {
					return err
				}
			}
			row++
		}

		if len(regs) < exportBatchSize {
			break
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Registrations exported", "rows", row-2)
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell: %w", err)
	}
	if err := f.SetCellValue(exportSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}
