package output

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/decibelcooper/hcreco/internal/sink"
)

// SQLite stores every table in a database table of the same name, one row
// per table row, keyed by run ID, run, event and row index. A runs table
// records each invocation.
type SQLite struct {
	db    *sql.DB
	runID string
	// created maps a table name and column list to its insert statement.
	created map[string]string
}

const runsSchema = `CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started TEXT NOT NULL,
	input TEXT NOT NULL,
	config TEXT NOT NULL
)`

// OpenSQLite opens or creates the database at path and registers a new run.
func OpenSQLite(path, input, config string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(runsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}
	s := &SQLite{db: db, runID: uuid.New().String(), created: map[string]string{}}
	_, err = db.Exec("INSERT INTO runs (run_id, started, input, config) VALUES (?, ?, ?, ?)",
		s.runID, time.Now().UTC().Format(time.RFC3339), input, config)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("registering run: %w", err)
	}
	return s, nil
}

// RunID identifies this invocation in every written row.
func (s *SQLite) RunID() string { return s.runID }

// DB exposes the underlying database.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Write(rec Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	// Schema changes only become visible to later writes once committed.
	created := map[string]string{}
	for i := range rec.Tables {
		if err := s.writeTable(tx, rec, &rec.Tables[i], created); err != nil {
			tx.Rollback()
			return fmt.Errorf("table %s: %w", rec.Tables[i].Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	for name, insert := range created {
		s.created[name] = insert
	}
	return nil
}

func (s *SQLite) writeTable(tx *sql.Tx, rec Record, t *sink.Table, created map[string]string) error {
	if t.Rows() == 0 {
		return nil
	}
	key := t.Name + "\x00" + strings.Join(t.Names(), "\x00")
	insert, ok := s.created[key]
	if !ok {
		insert, ok = created[key]
	}
	if !ok {
		var err error
		if insert, err = s.create(tx, t); err != nil {
			return err
		}
		created[key] = insert
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < t.Rows(); i++ {
		args := append([]any{s.runID, rec.Run, rec.Event, i}, t.Row(i)...)
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return nil
}

func sqlType(k sink.Kind) string {
	if k == sink.Float {
		return "REAL"
	}
	return "INTEGER"
}

// create makes sure the table exists and holds every column of t. Columns
// missing from a table written by an earlier run are added; rows of that
// run read NULL there.
func (s *SQLite) create(tx *sql.Tx, t *sink.Table) (string, error) {
	cols := []string{"run_id TEXT NOT NULL", "run INTEGER NOT NULL", "event INTEGER NOT NULL", "idx INTEGER NOT NULL"}
	names := []string{"run_id", "run", "event", "idx"}
	for _, c := range t.Columns {
		cols = append(cols, fmt.Sprintf("%s %s", quote(c.Name), sqlType(c.Kind)))
		names = append(names, quote(c.Name))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(t.Name), strings.Join(cols, ", "))
	if _, err := tx.Exec(ddl); err != nil {
		return "", err
	}

	existing, err := tableColumns(tx, t.Name)
	if err != nil {
		return "", err
	}
	for _, c := range t.Columns {
		if existing[c.Name] {
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quote(t.Name), quote(c.Name), sqlType(c.Kind))
		if _, err := tx.Exec(alter); err != nil {
			return "", fmt.Errorf("adding column %s: %w", c.Name, err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(t.Name), strings.Join(names, ", "), placeholders), nil
}

func tableColumns(tx *sql.Tx, table string) (map[string]bool, error) {
	rows, err := tx.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ReadFloats returns every value of a float column of table, optionally
// restricted to one run ID. NULLs from runs without the column are skipped.
func ReadFloats(db *sql.DB, table, column, runID string) ([]float64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", quote(column), quote(table))
	var args []any
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	rows, err := db.Query(query+" ORDER BY event, idx", args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var vals []float64
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			vals = append(vals, v.Float64)
		}
	}
	return vals, rows.Err()
}
