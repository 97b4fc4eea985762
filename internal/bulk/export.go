package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/braiinybear/backoffice-service/internal/models"
)

// Column is one CSV column: its header and how to read it from a record.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// ExportCSV writes a header row and one row per selected record. When
// nothing is selected the visible rows are exported instead.
func ExportCSV[T Record](w io.Writer, columns []Column[T], sel *Selection[T], visible []T) error {
	rows := visible
	if sel != nil && sel.Len() > 0 {
		rows = sel.Snapshots()
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, r := range rows {
		for i, col := range columns {
			record[i] = col.Value(r)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.RecordID(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RegistrationColumns is the roster export layout.
var RegistrationColumns = []Column[models.Registration]{
	{"Name", func(r models.Registration) string { return r.Name }},
	{"Email", func(r models.Registration) string {
		if r.Email == nil {
			return ""
		}
		return *r.Email
	}},
	{"Phone", func(r models.Registration) string { return r.PhoneNo }},
	{"Father Name", func(r models.Registration) string { return r.FatherName }},
	{"Mother Name", func(r models.Registration) string { return r.MotherName }},
	{"Course", func(r models.Registration) string { return r.CourseName }},
	{"Aadhaar No", func(r models.Registration) string { return r.AadharCardNo }},
	{"Address", func(r models.Registration) string { return r.Address }},
	{"Payment Status", func(r models.Registration) string { return string(r.PaymentStatus) }},
	{"Marksheets", func(r models.Registration) string { return strings.Join(r.Marksheets, " ") }},
	{"Registered At", func(r models.Registration) string { return r.CreatedAt.Format("2006-01-02") }},
}

var CourseColumns = []Column[models.Course]{
	{"Title", func(c models.Course) string { return c.Title }},
	{"Category", func(c models.Course) string { return c.Category }},
	{"Duration", func(c models.Course) string { return c.Duration }},
	{"Total Fee", func(c models.Course) string { return c.TotalFee }},
	{"Status", func(c models.Course) string { return string(c.Status) }},
	{"Approved By", func(c models.Course) string { return c.ApprovedBy }},
}
