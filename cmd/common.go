package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/dfprofile-cli/internal/dataset"
	"github.com/KaramelBytes/dfprofile-cli/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Source and report flags shared by the dataset commands.
var (
	srcSheet     string
	srcDelimiter string
	srcSQLDriver string
	srcTable     string

	repBins       int
	repSampleRows int
	repCorrReject float64
	repFreqTop    int
	repMaxRows    int
	repDecimal    string
)

func addSourceFlags(c *cobra.Command) {
	c.Flags().StringVar(&srcSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	c.Flags().StringVar(&srcDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default: from extension)")
	c.Flags().StringVar(&srcSQLDriver, "sql-driver", "", "read a SQL table: sqlite | postgres (source is the DSN)")
	c.Flags().StringVar(&srcTable, "table", "", "SQL table to profile (with --sql-driver)")
}

func addReportFlags(c *cobra.Command) {
	addSourceFlags(c)
	c.Flags().IntVar(&repBins, "bins", 0, "histogram bins (overrides config)")
	c.Flags().IntVar(&repSampleRows, "sample-rows", -1, "rows embedded in the sample section (overrides config)")
	c.Flags().Float64Var(&repCorrReject, "corr-reject", -1, "correlation above which a numeric variable is rejected (overrides config)")
	c.Flags().IntVar(&repFreqTop, "freq-top", 0, "values kept per frequency table (overrides config)")
	c.Flags().IntVar(&repMaxRows, "max-rows", 0, "maximum rows to describe, 0 = all (overrides config)")
	c.Flags().StringVar(&repDecimal, "decimal", "", "decimal separator: '.' | 'comma' (default: auto)")
}

// openSource opens the dataset named by source according to the source flags.
// The returned close func is never nil.
func openSource(source string) (dataset.Dataset, func(), error) {
	opt := dataset.OpenOptions{Sheet: srcSheet, SQLDriver: srcSQLDriver, Table: srcTable}
	switch srcDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	default:
		return nil, func() {}, fmt.Errorf("unsupported --delimiter: %s", srcDelimiter)
	}
	ds, err := dataset.Open(source, opt)
	if err != nil {
		return nil, func() {}, err
	}
	closeFn := func() {}
	if c, ok := ds.(io.Closer); ok {
		closeFn = func() {
			if err := c.Close(); err != nil {
				logger.Warn("close dataset", zap.String("source", ds.Name()), zap.Error(err))
			}
		}
	}
	return ds, closeFn, nil
}

// buildReport opens source and constructs the report using config defaults
// overridden by any flags the user set.
func buildReport(cmd *cobra.Command, source string) (*report.ProfileReport, error) {
	c := effectiveConfig()
	ds, closeFn, err := openSource(source)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	dcfg := c.DescriberConfig()
	opts := []report.Option{
		report.WithBins(c.Bins),
		report.WithSampleRows(c.SampleRows),
		report.WithCorrReject(c.CorrReject),
		report.WithLogger(logger),
	}
	f := cmd.Flags()
	if f.Changed("bins") {
		opts = append(opts, report.WithBins(repBins))
	}
	if f.Changed("sample-rows") {
		opts = append(opts, report.WithSampleRows(repSampleRows))
	}
	if f.Changed("corr-reject") {
		opts = append(opts, report.WithCorrReject(repCorrReject))
	}
	if f.Changed("freq-top") {
		dcfg["freq_top"] = repFreqTop
	}
	if f.Changed("max-rows") {
		dcfg["max_rows"] = repMaxRows
	}
	if f.Changed("decimal") {
		dcfg["decimal"] = repDecimal
	}
	opts = append(opts, report.WithConfig(dcfg), report.WithExtra("source", ds.Name()))

	rep, err := report.New(ds, opts...)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return rep, nil
}
