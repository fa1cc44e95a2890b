package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/dfprofile-cli/internal/report"
	"github.com/KaramelBytes/dfprofile-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	profOutput   string
	profNoOutput bool
	profFragment bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <source>",
	Short: "Profile a dataset and write an HTML report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := buildReport(cmd, args[0])
		if err != nil {
			return err
		}
		if profFragment {
			fmt.Fprintln(cmd.OutOrStdout(), rep.HTMLFragment())
			return nil
		}
		out := report.DefaultOutputFile
		switch {
		case profNoOutput:
			out = report.NoOutputFile
		case profOutput != "":
			out = profOutput
		}
		if out == report.DefaultOutputFile {
			if dir := effectiveConfig().OutputDir; dir != "" {
				if err := utils.EnsureDir(dir); err != nil {
					return err
				}
				out = filepath.Join(dir, rep.DefaultFileName())
			}
		}
		if err := rep.ToFile(out); err != nil {
			return err
		}
		d := rep.Description()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Profiled %d rows × %d variables\n", d.Table.N, d.Table.NVar)
		if label, err := rep.OutputLabel(); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", label)
		}
		if rejected := rep.RejectedVariables(rep.CorrReject()); len(rejected) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ Warning: %d variable(s) rejected for high correlation: %v\n", len(rejected), rejected)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	addReportFlags(profileCmd)
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "output HTML path (default: profile_<id>.html)")
	profileCmd.Flags().BoolVar(&profNoOutput, "no-output", false, "build the report without writing a file")
	profileCmd.Flags().BoolVar(&profFragment, "fragment", false, "print the report body HTML to stdout instead of writing a page")
}
