package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLTable is a Dataset reading one table through database/sql. Row order is
// whatever the engine returns for an unordered SELECT.
type SQLTable struct {
	db    *sqlx.DB
	table string
}

// OpenSQL connects with driver ("sqlite" or "postgres") and dsn.
func OpenSQL(driver, dsn, table string) (*SQLTable, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return NewSQLTable(db, table), nil
}

// NewSQLTable wraps an existing connection.
func NewSQLTable(db *sqlx.DB, table string) *SQLTable {
	return &SQLTable{db: db, table: table}
}

func (s *SQLTable) Name() string { return s.table }

// Close releases the underlying connection pool.
func (s *SQLTable) Close() error { return s.db.Close() }

func (s *SQLTable) Columns() ([]string, error) {
	rows, err := s.db.Queryx("SELECT * FROM " + s.table + " LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	return cols, nil
}

// Limit pushes the bound down to the engine.
func (s *SQLTable) Limit(n int) (*Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLimit, n)
	}
	cols, err := s.Columns()
	if err != nil {
		return nil, err
	}
	out := &Sample{Columns: cols, Rows: make([][]string, 0, min(n, 64))}
	if n == 0 {
		return out, nil
	}
	err = s.query("SELECT * FROM "+s.table+" LIMIT "+strconv.Itoa(n), func(row []string) error {
		out.Rows = append(out.Rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLTable) Scan(fn func(row []string) error) error {
	return s.query("SELECT * FROM "+s.table, fn)
}

func (s *SQLTable) query(q string, fn func(row []string) error) error {
	rows, err := s.db.Queryx(q)
	if err != nil {
		return fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return fmt.Errorf("scan %s: %w", s.table, err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

type sqlOpener struct{}

func (sqlOpener) CanOpen(_ string, opt OpenOptions) bool { return opt.SQLDriver != "" }

func (sqlOpener) Open(source string, opt OpenOptions) (Dataset, error) {
	switch opt.SQLDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("%w: sql driver %q (use sqlite or postgres)", ErrUnsupportedSource, opt.SQLDriver)
	}
	return OpenSQL(opt.SQLDriver, source, opt.Table)
}
