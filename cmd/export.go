package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/dfprofile-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	expOutput  string
	expSection string
)

var exportCmd = &cobra.Command{
	Use:   "export <source>",
	Short: "Export the overview, variables and frequency tables",
	Long: `Export the profile tables. With an .xlsx output the three tables are written
to sheets Overview, Variables and Frequency. Otherwise one --section is written
as CSV to the output path or stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := buildReport(cmd, args[0])
		if err != nil {
			return err
		}
		if strings.HasSuffix(strings.ToLower(expOutput), ".xlsx") {
			if err := rep.WriteWorkbook(expOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote workbook to %s\n", expOutput)
			return nil
		}
		var t report.Table
		switch strings.ToLower(expSection) {
		case "overview":
			t = rep.ExportOverview()
		case "variables":
			t = rep.ExportVariables()
		case "freq", "frequency":
			t = rep.ExportFrequency()
		default:
			return fmt.Errorf("unsupported --section: %s (use overview|variables|frequency)", expSection)
		}
		out := cmd.OutOrStdout()
		if expOutput != "" {
			f, err := os.Create(expOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}
		w := csv.NewWriter(out)
		if err := w.Write(t.Columns); err != nil {
			return err
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		if expOutput != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s table to %s\n", expSection, expOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addReportFlags(exportCmd)
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "output path (.xlsx writes all tables; otherwise CSV)")
	exportCmd.Flags().StringVar(&expSection, "section", "variables", "table to write as CSV: overview|variables|frequency")
}
