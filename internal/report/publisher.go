// Package report renders an aggregate scan report into a multi-sheet XLSX
// artifact.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dbsmedya/gosweep/internal/logger"
	"github.com/dbsmedya/gosweep/internal/scan"
)

// Sheet names in the published workbook.
const (
	SheetMatchingFiles = "Matching Files"
	SheetPathExistence = "Path Existence"
	SheetErrors        = "Errors"
	SheetSummary       = "Summary"
)

const timeFormat = "2006-01-02 15:04:05"

// Publisher writes aggregate reports to timestamped XLSX files in a
// configured output directory.
type Publisher struct {
	outputDir string
	logger    *logger.Logger
}

// NewPublisher creates a Publisher writing into outputDir.
func NewPublisher(outputDir string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Publisher{outputDir: outputDir, logger: log}
}

// EnsureOutputDir creates the output directory if needed and verifies it is
// usable. Called before fan-out so an unwritable destination fails the run
// up front instead of after scanning the whole fleet.
func (p *Publisher) EnsureOutputDir() error {
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", p.outputDir, err)
	}
	info, err := os.Stat(p.outputDir)
	if err != nil {
		return fmt.Errorf("failed to stat output directory %s: %w", p.outputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", p.outputDir)
	}
	return nil
}

// Publish writes the report workbook and returns the artifact path. The
// filename carries the run start time so repeated runs never overwrite each
// other.
func (p *Publisher) Publish(report *scan.Report, startedAt time.Time) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := p.writeMatchingFiles(f, report); err != nil {
		return "", err
	}
	if err := p.writePathExistence(f, report); err != nil {
		return "", err
	}
	if err := p.writeErrors(f, report); err != nil {
		return "", err
	}
	if err := p.writeSummary(f, report, startedAt); err != nil {
		return "", err
	}

	// Drop the default sheet and land on the file listing.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(SheetMatchingFiles)
	if err != nil {
		return "", fmt.Errorf("failed to locate sheet %s: %w", SheetMatchingFiles, err)
	}
	f.SetActiveSheet(index)

	path := filepath.Join(p.outputDir, fmt.Sprintf("gosweep-%s.xlsx", startedAt.Format("20060102-150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report to %s: %w", path, err)
	}

	p.logger.Infow("Report published",
		"path", path,
		"file_rows", len(report.FileRows),
		"existence_rows", len(report.ExistenceRows),
		"error_rows", len(report.ErrorRows),
	)

	return path, nil
}

func (p *Publisher) writeMatchingFiles(f *excelize.File, report *scan.Report) error {
	if _, err := f.NewSheet(SheetMatchingFiles); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetMatchingFiles, err)
	}

	header := []interface{}{"Computer Name", "Path", "Creation Time", "Last Write Time", "Size (Bytes)"}
	if err := f.SetSheetRow(SheetMatchingFiles, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range report.FileRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Target,
			row.Path,
			row.CreationTime.Format(timeFormat),
			row.LastWriteTime.Format(timeFormat),
			row.SizeBytes,
		}
		if err := f.SetSheetRow(SheetMatchingFiles, cell, &values); err != nil {
			return fmt.Errorf("failed to write file row %d: %w", i, err)
		}
	}
	return nil
}

func (p *Publisher) writePathExistence(f *excelize.File, report *scan.Report) error {
	if _, err := f.NewSheet(SheetPathExistence); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetPathExistence, err)
	}

	header := []interface{}{"Computer Name", "Root Path", "Exists"}
	if err := f.SetSheetRow(SheetPathExistence, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range report.ExistenceRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Target, row.Root, row.Exists}
		if err := f.SetSheetRow(SheetPathExistence, cell, &values); err != nil {
			return fmt.Errorf("failed to write existence row %d: %w", i, err)
		}
	}
	return nil
}

func (p *Publisher) writeErrors(f *excelize.File, report *scan.Report) error {
	if _, err := f.NewSheet(SheetErrors); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetErrors, err)
	}

	header := []interface{}{"Computer Name", "Path", "Error"}
	if err := f.SetSheetRow(SheetErrors, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range report.ErrorRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Target, row.Path, row.Message}
		if err := f.SetSheetRow(SheetErrors, cell, &values); err != nil {
			return fmt.Errorf("failed to write error row %d: %w", i, err)
		}
	}
	return nil
}

func (p *Publisher) writeSummary(f *excelize.File, report *scan.Report, startedAt time.Time) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummary, err)
	}

	rows := [][]interface{}{
		{"Run Started", startedAt.Format(timeFormat)},
		{"Targets Scanned", report.Counters.TargetsScanned},
		{"Matching Files", report.Counters.MatchingFiles},
		{"Search Errors", report.Counters.SearchErrors},
	}
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := values
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i, err)
		}
	}
	return nil
}
