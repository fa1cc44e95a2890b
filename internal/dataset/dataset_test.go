package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func peopleCSV(t *testing.T, n int) string {
	t.Helper()
	lines := []string{"age,city"}
	cities := []string{"Oslo", "Lima", "Pune"}
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("%d,%s", 20+i%50, cities[i%3]))
	}
	return writeCSV(t, "people.csv", lines...)
}

func TestCSVLimitBoundsRows(t *testing.T) {
	path := peopleCSV(t, 100)
	ds := NewCSV(path, 0)
	cases := []struct {
		n    int
		want int
	}{
		{0, 0}, {1, 1}, {5, 5}, {100, 100}, {250, 100},
	}
	for _, c := range cases {
		s, err := ds.Limit(c.n)
		if err != nil {
			t.Fatalf("Limit(%d): %v", c.n, err)
		}
		if s.Len() != c.want {
			t.Errorf("Limit(%d) rows = %d, want %d", c.n, s.Len(), c.want)
		}
		if len(s.Columns) != 2 || s.Columns[0] != "age" || s.Columns[1] != "city" {
			t.Errorf("columns = %#v", s.Columns)
		}
	}
}

func TestCSVLimitKeepsSourceOrder(t *testing.T) {
	ds := NewCSV(peopleCSV(t, 10), 0)
	s, err := ds.Limit(3)
	if err != nil {
		t.Fatalf("Limit: %v", err)
	}
	want := [][]string{{"20", "Oslo"}, {"21", "Lima"}, {"22", "Pune"}}
	for i := range want {
		if strings.Join(s.Rows[i], ",") != strings.Join(want[i], ",") {
			t.Fatalf("row %d = %#v, want %#v", i, s.Rows[i], want[i])
		}
	}
}

func TestLimitRejectsNegative(t *testing.T) {
	ds := NewCSV(peopleCSV(t, 3), 0)
	if _, err := ds.Limit(-1); !errors.Is(err, ErrNegativeLimit) {
		t.Fatalf("err = %v, want ErrNegativeLimit", err)
	}
}

func TestCSVPadsShortRowsAndSniffsTSV(t *testing.T) {
	path := writeCSV(t, "data.tsv", "a\tb\tc", "1\t2", " x \ty\tz")
	ds := NewCSV(path, 0)
	var rows [][]string
	if err := ds.Scan(func(row []string) error {
		rows = append(rows, append([]string(nil), row...))
		return nil
	}); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if len(rows[0]) != 3 || rows[0][2] != "" {
		t.Fatalf("short row not padded: %#v", rows[0])
	}
	if rows[1][0] != "x" {
		t.Fatalf("cell not trimmed: %q", rows[1][0])
	}
}

func TestCSVMissingFile(t *testing.T) {
	ds := NewCSV(filepath.Join(t.TempDir(), "nope.csv"), 0)
	if _, err := ds.Limit(5); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFrameScanStopsOnError(t *testing.T) {
	fr := NewFrame("f", []string{"a"}, [][]string{{"1"}, {"2"}, {"3"}})
	stop := errors.New("boom")
	seen := 0
	err := fr.Scan(func(row []string) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || seen != 2 {
		t.Fatalf("err=%v seen=%d", err, seen)
	}
}

func TestXLSXReadsFirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	rows := [][]any{{"age", "city"}, {31, "Oslo"}, {42}, {27, "Pune"}}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := r
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = f.Close()

	ds := NewXLSX(path, "")
	cols, err := ds.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if strings.Join(cols, ",") != "age,city" {
		t.Fatalf("columns = %#v", cols)
	}
	s, err := ds.Limit(10)
	if err != nil {
		t.Fatalf("Limit: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("rows = %d, want 3", s.Len())
	}
	if s.Rows[1][0] != "42" || s.Rows[1][1] != "" {
		t.Fatalf("row 2 = %#v", s.Rows[1])
	}

	if _, err := NewXLSX(path, "Missing").Columns(); err == nil || !strings.Contains(err.Error(), "Available sheets: Sheet1") {
		t.Fatalf("expected missing sheet error, got %v", err)
	}
}

func TestSQLTableSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "people.db")
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	db.MustExec(`CREATE TABLE people (age INTEGER, city TEXT)`)
	for i := 0; i < 12; i++ {
		db.MustExec(`INSERT INTO people (age, city) VALUES (?, ?)`, 30+i, fmt.Sprintf("c%d", i%4))
	}
	db.MustExec(`INSERT INTO people (age, city) VALUES (NULL, 'x')`)

	ds, err := Open(dsn, OpenOptions{SQLDriver: "sqlite", Table: "people"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tbl := ds.(*SQLTable)
	defer tbl.Close()

	cols, err := tbl.Columns()
	if err != nil || strings.Join(cols, ",") != "age,city" {
		t.Fatalf("columns = %#v, err = %v", cols, err)
	}
	s, err := tbl.Limit(5)
	if err != nil {
		t.Fatalf("Limit: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("rows = %d, want 5", s.Len())
	}
	total, nulls := 0, 0
	if err := tbl.Scan(func(row []string) error {
		total++
		if row[0] == "" {
			nulls++
		}
		return nil
	}); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if total != 13 || nulls != 1 {
		t.Fatalf("total=%d nulls=%d", total, nulls)
	}
}

func TestOpenRejectsUnknownSource(t *testing.T) {
	if _, err := Open("data.parquet", OpenOptions{}); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Open("x", OpenOptions{SQLDriver: "mysql", Table: "t"}); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("err = %v", err)
	}
	if _, err := OpenSQL("sqlite", ":memory:", "t; DROP"); err == nil {
		t.Fatal("expected invalid table error")
	}
}
