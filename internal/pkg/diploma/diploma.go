// Package diploma renders graduation diplomas as PDF documents.
package diploma

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/yigit/dojo/internal/pkg/filestorage"
)

// ErrIncompleteRequest is returned when the student name or belt is missing
var ErrIncompleteRequest = errors.New("diploma request is missing student name or belt")

// DefaultSubDir is the storage directory used when none is configured
const DefaultSubDir = "diplomas"

// Request carries everything printed on a diploma
type Request struct {
	StudentName    string
	Belt           string
	Date           string // already formatted
	InstructorName string
	Location       string
	Score          int
	Comments       string
}

// Config holds generator settings
type Config struct {
	SchoolName string
	SubDir     string
}

// Generator writes diplomas into file storage
type Generator struct {
	storage filestorage.FileStorage
	config  Config
	logger  zerolog.Logger
}

// NewGenerator creates a diploma Generator
func NewGenerator(storage filestorage.FileStorage, config Config, logger zerolog.Logger) *Generator {
	if config.SubDir == "" {
		config.SubDir = DefaultSubDir
	}
	if config.SchoolName == "" {
		config.SchoolName = "Dojo"
	}
	return &Generator{storage: storage, config: config, logger: logger}
}

// Generate renders the diploma and returns its storage path
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.StudentName) == "" || strings.TrimSpace(req.Belt) == "" {
		return "", ErrIncompleteRequest
	}

	data, err := Render(g.config.SchoolName, req)
	if err != nil {
		return "", err
	}

	path, err := g.storage.SaveBytes(g.config.SubDir, ".pdf", data)
	if err != nil {
		return "", fmt.Errorf("failed to store diploma: %w", err)
	}

	g.logger.Info().
		Str("student", req.StudentName).
		Str("belt", req.Belt).
		Str("path", path).
		Msg("Diploma generated")
	return path, nil
}

// Render builds the PDF bytes of a diploma
func Render(schoolName string, req Request) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Graduation diploma - "+req.StudentName), false)
	pdf.SetAuthor(tr(schoolName), false)
	pdf.AddPage()

	pdf.SetDrawColor(40, 40, 40)
	pdf.SetLineWidth(1.5)
	pdf.Rect(10, 10, 277, 190, "D")

	pdf.SetY(28)
	pdf.SetFont("Helvetica", "B", 30)
	pdf.CellFormat(0, 14, tr(schoolName), "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "Graduation Diploma", "", 1, "C", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 10, tr("This certifies that "+strings.ToUpper(req.StudentName)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, tr("has earned the "+strings.ToUpper(req.Belt)+" belt with merit."), "", 1, "C", false, 0, "")

	pdf.Ln(4)
	if req.Date != "" {
		pdf.CellFormat(0, 9, tr("Graduation date: "+req.Date), "", 1, "C", false, 0, "")
	}
	if req.Location != "" {
		pdf.CellFormat(0, 9, tr("Issued at: "+req.Location), "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 9, fmt.Sprintf("Score: %d", req.Score), "", 1, "C", false, 0, "")
	if req.Comments != "" {
		pdf.MultiCell(0, 7, tr("Comments: "+req.Comments), "", "C", false)
	}

	pdf.SetY(165)
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 7, "_________________________", "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 7, tr(req.InstructorName), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 7, tr(schoolName), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render diploma: %w", err)
	}
	return buf.Bytes(), nil
}
