// Package export builds spreadsheet exports.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Roster"

// RosterHeader describes the graduation being exported
type RosterHeader struct {
	GraduationID   int64
	Level          string
	Scope          string
	Date           time.Time
	Location       string
	AvailableSlots int
}

// RosterRow is one enrolled student
type RosterRow struct {
	StudentID   int64
	Name        string
	Email       string
	Belt        string
	EnrolledAt  time.Time
	Score       *int
	DiplomaPath *string
}

var rosterColumns = []string{"Student ID", "Name", "Email", "Current belt", "Enrolled at", "Score", "Result", "Diploma"}

// Roster renders the graduation roster as an XLSX workbook
func Roster(header RosterHeader, rows []RosterRow, passingScore int) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Graduation", header.GraduationID},
		{"Level", header.Level},
		{"Scope", header.Scope},
		{"Date", header.Date.Format("02.01.2006")},
		{"Location", header.Location},
		{"Available slots", header.AvailableSlots},
	}
	for i, line := range summary {
		for j, v := range line {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(rosterSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	headerRow := len(summary) + 2
	for i, title := range rosterColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(rosterSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		row := headerRow + 1 + i
		values := []interface{}{r.StudentID, r.Name, r.Email, r.Belt, r.EnrolledAt.Format("02.01.2006"), "", "pending", ""}
		if r.Score != nil {
			values[5] = *r.Score
			values[6] = "failed"
			if *r.Score >= passingScore {
				values[6] = "passed"
			}
		}
		if r.DiplomaPath != nil {
			values[7] = *r.DiplomaPath
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(rosterSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
