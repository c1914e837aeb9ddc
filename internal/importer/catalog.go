package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Importer loads catalog CSV exports into Postgres. Rows carry their
// original primary keys, so every table's sequence is bumped past the
// highest imported id afterwards.
type Importer struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// New constructs an Importer.
func New(db *sqlx.DB, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{db: db, logger: logger}
}

// Summary reports how many rows each table received.
type Summary struct {
	Programs        int
	Specializations int
	Courses         int
}

type table struct {
	name    string
	idCol   string
	columns []string
}

var (
	programsTable = table{
		name:    "programs",
		idCol:   "program_id",
		columns: []string{"program_id", "department_id", "name", "description", "program_abbreviation"},
	}
	specializationsTable = table{
		name:    "program_specializations",
		idCol:   "specialization_id",
		columns: []string{"specialization_id", "program_id", "name", "description", "abbreviation"},
	}
	coursesTable = table{
		name:    "courses",
		idCol:   "course_id",
		columns: []string{"course_id", "title", "course_code", "description", "term_id", "specialization_id", "created_at", "updated_at"},
	}
)

// Run imports the three catalog files inside a single transaction.
// Rows whose primary key already exists are skipped.
func (im *Importer) Run(ctx context.Context, programsPath, specsPath, coursesPath string) (summary *Summary, err error) {
	tx, err := im.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback() //nolint:errcheck
		}
	}()

	summary = &Summary{}

	if summary.Programs, err = im.importFile(ctx, tx, programsPath, programsTable); err != nil {
		return nil, err
	}
	if summary.Specializations, err = im.importFile(ctx, tx, specsPath, specializationsTable); err != nil {
		return nil, err
	}
	if summary.Courses, err = im.importFile(ctx, tx, coursesPath, coursesTable); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import transaction: %w", err)
	}
	return summary, nil
}

func (im *Importer) importFile(ctx context.Context, tx *sqlx.Tx, path string, t table) (int, error) {
	rows, err := readRows(path, t.columns)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "), t.idCol,
	)

	inserted := 0
	for _, row := range rows {
		result, execErr := tx.ExecContext(ctx, query, row...)
		if execErr != nil {
			return 0, fmt.Errorf("insert into %s: %w", t.name, execErr)
		}
		if n, raErr := result.RowsAffected(); raErr == nil {
			inserted += int(n)
		}
	}

	seq := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s','%s'), COALESCE((SELECT MAX(%s) FROM %s),0)+1, false)",
		t.name, t.idCol, t.idCol, t.name,
	)
	if _, err := tx.ExecContext(ctx, seq); err != nil {
		return 0, fmt.Errorf("fix %s sequence: %w", t.name, err)
	}

	im.logger.Info("imported catalog table",
		zap.String("table", t.name),
		zap.Int("rows", len(rows)),
		zap.Int("inserted", inserted))
	return inserted, nil
}

// readRows parses a CSV file and projects each record onto the wanted
// columns by header name. Empty cells become NULL.
func readRows(path string, columns []string) ([][]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make([]int, len(columns))
	for i, col := range columns {
		index[i] = -1
		for j, h := range header {
			if strings.TrimSpace(h) == col {
				index[i] = j
				break
			}
		}
		if index[i] == -1 {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var rows [][]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]interface{}, len(columns))
		empty := true
		for i, j := range index {
			if j >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[j])
			if value == "" {
				continue
			}
			row[i] = value
			empty = false
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
