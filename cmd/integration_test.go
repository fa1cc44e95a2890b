package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// writeCSV writes x, y=2x+1, a parity column and a city column.
func writeCSV(t *testing.T, dir string, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("x,y,z,city\n")
	cities := []string{"Oslo", "Lima", "Pune"}
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d,%d,%d,%s\n", i, 2*i+1, (i%2)*10, cities[i%3])
	}
	p := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(p, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestCLI_ProfileWritesReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	src := writeCSV(t, dir, 40)
	outPath := filepath.Join(dir, "report.html")

	out := mustRun(t, "profile", src, "-o", outPath, "--sample-rows", "3")
	if !strings.Contains(out, "Output written to file "+outPath) {
		t.Fatalf("stdout = %s", out)
	}
	if !strings.Contains(out, "[y]") {
		t.Fatalf("expected rejected warning for y: %s", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), "<!doctype html>") || !strings.Contains(string(b), "Oslo") {
		t.Fatal("report missing page scaffolding or data")
	}

	noOut := filepath.Join(dir, "none")
	if err := os.Mkdir(noOut, 0o755); err != nil {
		t.Fatal(err)
	}
	testChdir(t, noOut)
	mustRun(t, "profile", src, "--no-output")
	if entries, _ := os.ReadDir(noOut); len(entries) != 0 {
		t.Fatalf("--no-output wrote files: %v", entries)
	}
}

func TestCLI_RejectedAndDescribe(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	src := writeCSV(t, dir, 40)

	out := mustRun(t, "rejected", src)
	if !strings.HasPrefix(out, "y\t") {
		t.Fatalf("rejected = %q", out)
	}
	out = mustRun(t, "rejected", src, "--threshold", "1")
	if !strings.Contains(out, "No variables") {
		t.Fatalf("rejected at 1 = %q", out)
	}

	out = mustRun(t, "describe", src, "--freq-top", "2")
	var desc struct {
		Table struct {
			N    int `json:"n"`
			NVar int `json:"nvar"`
		} `json:"table"`
		Freq map[string][]json.RawMessage `json:"freq"`
	}
	if err := json.Unmarshal([]byte(out), &desc); err != nil {
		t.Fatalf("decode describe output: %v\n%s", err, out)
	}
	if desc.Table.N != 40 || desc.Table.NVar != 4 || len(desc.Freq["city"]) != 2 {
		t.Fatalf("describe = %+v", desc)
	}

	if _, err := runCmd(t, "describe", src, "--format", "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCLI_ExportAndStandalone(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	src := writeCSV(t, dir, 20)

	xlsx := filepath.Join(dir, "profile.xlsx")
	mustRun(t, "export", src, "-o", xlsx)
	if _, err := os.Stat(xlsx); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	out := mustRun(t, "export", src, "--section", "frequency")
	if !strings.HasPrefix(out, "variable,value,count\n") {
		t.Fatalf("csv export = %q", out)
	}

	root := filepath.Join(dir, "dbfs")
	page := filepath.Join(dir, "standalone.html")
	mustRun(t, "standalone", src, "--target", "local", "--root", root, "-o", page)
	if _, err := os.Stat(filepath.Join(root, "FileStore", "spark_df_profiling", "js", "jquery.min.js")); err != nil {
		t.Fatalf("assets not published: %v", err)
	}
	b, _ := os.ReadFile(page)
	if !strings.Contains(string(b), "/files/spark_df_profiling/css/bootstrap.min.css") {
		t.Fatal("standalone page does not link local assets")
	}

	if _, err := runCmd(t, "standalone", src, "--mode", "jupyter", "--target", "local", "--root", root); err == nil {
		t.Fatal("expected unsupported mode error")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "cfg.yaml")

	mustRun(t, "--config", path, "config", "set", "bins", "12")
	if _, err := runCmd(t, "--config", path, "config", "set", "corr_reject", "2"); err == nil {
		t.Fatal("expected error for corr_reject > 1")
	}
	if _, err := runCmd(t, "--config", path, "config", "set", "nope", "1"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	b, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(b), "bins: 12") {
		t.Fatalf("config file = %q, %v", b, err)
	}
}

func TestCLI_ConfigFileAndEnvFlowIntoReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	src := writeCSV(t, dir, 30)
	path := filepath.Join(dir, "cfg.yaml")

	mustRun(t, "--config", path, "config", "set", "bins", "3")
	if out := mustRun(t, "--config", path, "config", "show"); !strings.Contains(out, "bins: 3\n") {
		t.Fatalf("config show = %q", out)
	}

	type described struct {
		Variables []struct {
			Name    string `json:"name"`
			Numeric *struct {
				Histogram struct {
					Counts []int `json:"counts"`
				} `json:"histogram"`
			} `json:"numeric"`
		} `json:"variables"`
		Freq map[string][]json.RawMessage `json:"freq"`
	}
	decode := func(out string) described {
		t.Helper()
		var d described
		if err := json.Unmarshal([]byte(out), &d); err != nil {
			t.Fatalf("decode describe output: %v\n%s", err, out)
		}
		return d
	}

	d := decode(mustRun(t, "describe", src, "--config", path))
	if len(d.Variables) == 0 || d.Variables[0].Numeric == nil || len(d.Variables[0].Numeric.Histogram.Counts) != 3 {
		t.Fatalf("bins from config not applied: %+v", d.Variables)
	}
	d = decode(mustRun(t, "describe", src, "--config", path, "--bins", "4"))
	if len(d.Variables[0].Numeric.Histogram.Counts) != 4 {
		t.Fatalf("--bins did not override config: %+v", d.Variables[0])
	}

	// godotenv never overrides variables already present in the environment,
	// so the key is registered for restore and then removed.
	t.Setenv("DFPROFILE_FREQ_TOP", "")
	_ = os.Unsetenv("DFPROFILE_FREQ_TOP")
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("DFPROFILE_FREQ_TOP=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d = decode(mustRun(t, "describe", src, "--config", path, "--env-file", envPath))
	if len(d.Freq["city"]) != 1 {
		t.Fatalf("freq_top from env file not applied: %d entries", len(d.Freq["city"]))
	}
	if out := mustRun(t, "--config", path, "config", "show"); !strings.Contains(out, "freq_top: 1\n") {
		t.Fatalf("config show = %q", out)
	}
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
