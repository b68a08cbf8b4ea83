// Package importer maps rows of the clergy, parish and deanery CSV schemas
// onto directory operations. Header names are matched case-insensitively and
// column order is free. Rows that fail validation are skipped and reported;
// storage failures abort the import.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"diocese/internal/platform/logger"
	"diocese/pkg/domain"
)

// Kind names one of the importable CSV schemas.
type Kind string

// Supported schemas.
const (
	KindClergy    Kind = "clergy"
	KindParishes  Kind = "parishes"
	KindDeaneries Kind = "deaneries"
)

// Column headers, lower-cased.
const (
	colTitle             = "title"
	colFirstName         = "first name"
	colLastName          = "last name"
	colEmail             = "email"
	colPhone             = "phone"
	colType              = "type"
	colCurrentAssignment = "current assignment"
	colStatus            = "status"
	colName              = "name"
	colAddress           = "address"
	colCity              = "city"
	colState             = "state"
	colZip               = "zip"
	colWebsite           = "website"
	colDeanery           = "deanery"
	colDean              = "dean"
	colRegion            = "region"
)

var requiredColumns = map[Kind][]string{
	KindClergy:    {colFirstName, colLastName},
	KindParishes:  {colName},
	KindDeaneries: {colName},
}

// ParseKind resolves a schema name. Singular forms are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clergy":
		return KindClergy, nil
	case "parish", "parishes":
		return KindParishes, nil
	case "deanery", "deaneries":
		return KindDeaneries, nil
	}
	return "", fmt.Errorf("unknown import kind %q", s)
}

// Directory is the subset of the directory engine an import drives.
type Directory interface {
	SaveClergy(ctx context.Context, clergy domain.Clergy) (domain.Clergy, error)
	SaveParish(ctx context.Context, parish domain.Parish, assignedClergyIDs []string) (domain.Parish, error)
	SaveDeanery(ctx context.Context, deanery domain.Deanery, parishIDs []string, deanID string) (domain.Deanery, error)
	ListClergy(ctx context.Context) ([]domain.Clergy, error)
	ListDeaneries(ctx context.Context) ([]domain.Deanery, error)
}

// RowIssue is a problem attached to one CSV line.
type RowIssue struct {
	Row     int    `json:"row" yaml:"row"`
	Message string `json:"message" yaml:"message"`
}

// Report summarises an import.
type Report struct {
	Kind     Kind       `json:"kind" yaml:"kind"`
	Rows     int        `json:"rows" yaml:"rows"`
	Imported []string   `json:"imported" yaml:"imported"`
	Errors   []RowIssue `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []RowIssue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (r *Report) fail(row int, err error) {
	r.Errors = append(r.Errors, RowIssue{Row: row, Message: err.Error()})
}

func (r *Report) warn(row int, format string, args ...any) {
	r.Warnings = append(r.Warnings, RowIssue{Row: row, Message: fmt.Sprintf(format, args...)})
}

// Importer reads CSV input into a Directory.
type Importer struct {
	dir    Directory
	logger *slog.Logger
}

// New returns an importer. A nil logger discards output.
func New(dir Directory, log *slog.Logger) *Importer {
	if log == nil {
		log = logger.Discard()
	}
	return &Importer{dir: dir, logger: log}
}

// Import reads r as the schema named by kind.
func (im *Importer) Import(ctx context.Context, kind Kind, r io.Reader) (Report, error) {
	switch kind {
	case KindClergy:
		return im.ImportClergy(ctx, r)
	case KindParishes:
		return im.ImportParishes(ctx, r)
	case KindDeaneries:
		return im.ImportDeaneries(ctx, r)
	}
	return Report{}, fmt.Errorf("unknown import kind %q", kind)
}

// ImportClergy creates one clergy record per row.
func (im *Importer) ImportClergy(ctx context.Context, r io.Reader) (Report, error) {
	report := Report{Kind: KindClergy, Imported: []string{}}
	t, err := readTable(r, requiredColumns[KindClergy])
	if err != nil {
		return report, err
	}
	for _, row := range t.rows {
		report.Rows++
		first, last := row.get(colFirstName), row.get(colLastName)
		c := domain.Clergy{
			Title:             row.get(colTitle),
			FirstName:         first,
			LastName:          last,
			Name:              strings.TrimSpace(first + " " + last),
			Email:             row.get(colEmail),
			Phone:             row.get(colPhone),
			Type:              domain.ClergyType(row.get(colType)),
			CurrentAssignment: row.get(colCurrentAssignment),
			Status:            domain.ClergyStatus(row.get(colStatus)),
		}
		saved, err := im.dir.SaveClergy(ctx, c)
		if err != nil {
			if abort := im.rowFailed(&report, row.line, err); abort != nil {
				return report, abort
			}
			continue
		}
		report.Imported = append(report.Imported, saved.ID)
	}
	im.done(report)
	return report, nil
}

// ImportParishes creates one parish per row. The Deanery column names an
// existing deanery; an unknown name fails the row.
func (im *Importer) ImportParishes(ctx context.Context, r io.Reader) (Report, error) {
	report := Report{Kind: KindParishes, Imported: []string{}}
	t, err := readTable(r, requiredColumns[KindParishes])
	if err != nil {
		return report, err
	}
	deaneries, err := im.dir.ListDeaneries(ctx)
	if err != nil {
		return report, err
	}
	byName := make(map[string][]string, len(deaneries))
	for _, d := range deaneries {
		key := foldName(d.Name)
		byName[key] = append(byName[key], d.ID)
	}

	for _, row := range t.rows {
		report.Rows++
		p := domain.Parish{
			Name: row.get(colName),
			Address: domain.Address{
				Street: row.get(colAddress),
				City:   row.get(colCity),
				State:  row.get(colState),
				Zip:    row.get(colZip),
			},
			Phone:   row.get(colPhone),
			Email:   row.get(colEmail),
			Website: row.get(colWebsite),
		}
		if name := row.get(colDeanery); name != "" {
			ids := byName[foldName(name)]
			switch len(ids) {
			case 0:
				report.fail(row.line, &domain.ReferenceNotFoundError{Entity: domain.EntityDeanery, ID: name})
				continue
			case 1:
				p.DeaneryID = ids[0]
			default:
				report.fail(row.line, fmt.Errorf("deanery name %q is ambiguous", name))
				continue
			}
		}
		saved, err := im.dir.SaveParish(ctx, p, nil)
		if err != nil {
			if abort := im.rowFailed(&report, row.line, err); abort != nil {
				return report, abort
			}
			continue
		}
		report.Imported = append(report.Imported, saved.ID)
	}
	im.done(report)
	return report, nil
}

// ImportDeaneries creates one deanery per row. The Dean column names an
// existing clergy member; an unknown or ambiguous name is dropped with a
// warning and the deanery is created without a dean. A clergy member heads
// at most one deanery, so a dean named again by a later row stays with the
// first row's deanery and the later one is saved without a dean.
func (im *Importer) ImportDeaneries(ctx context.Context, r io.Reader) (Report, error) {
	report := Report{Kind: KindDeaneries, Imported: []string{}}
	t, err := readTable(r, requiredColumns[KindDeaneries])
	if err != nil {
		return report, err
	}
	clergy, err := im.dir.ListClergy(ctx)
	if err != nil {
		return report, err
	}
	byName := make(map[string][]string, len(clergy))
	for _, c := range clergy {
		key := foldName(c.DisplayName())
		byName[key] = append(byName[key], c.ID)
	}

	deanRows := make(map[string]int)
	for _, row := range t.rows {
		report.Rows++
		d := domain.Deanery{
			Name:   row.get(colName),
			Region: row.get(colRegion),
		}
		var deanID string
		if name := row.get(colDean); name != "" {
			ids := byName[foldName(name)]
			switch len(ids) {
			case 0:
				report.warn(row.line, "dean %q not found; deanery %q saved without a dean", name, d.Name)
			case 1:
				if first, taken := deanRows[ids[0]]; taken {
					report.warn(row.line, "dean %q already heads the deanery from row %d; deanery %q saved without a dean", name, first, d.Name)
				} else {
					deanID = ids[0]
				}
			default:
				report.warn(row.line, "dean name %q matches %d clergy; deanery %q saved without a dean", name, len(ids), d.Name)
			}
		}
		saved, err := im.dir.SaveDeanery(ctx, d, nil, deanID)
		if err != nil {
			if abort := im.rowFailed(&report, row.line, err); abort != nil {
				return report, abort
			}
			continue
		}
		if deanID != "" {
			deanRows[deanID] = row.line
		}
		report.Imported = append(report.Imported, saved.ID)
	}
	im.done(report)
	return report, nil
}

// rowFailed records err against the row, or returns it when the import
// cannot continue.
func (im *Importer) rowFailed(report *Report, line int, err error) error {
	if domain.IsStorage(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		im.logger.Error("import aborted", "kind", report.Kind, "row", line, "error", err)
		return fmt.Errorf("row %d: %w", line, err)
	}
	report.fail(line, err)
	return nil
}

func (im *Importer) done(report Report) {
	im.logger.Info("import finished",
		"kind", report.Kind,
		"rows", report.Rows,
		"imported", len(report.Imported),
		"errors", len(report.Errors),
		"warnings", len(report.Warnings),
	)
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
