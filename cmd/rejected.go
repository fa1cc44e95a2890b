package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rejThreshold float64

var rejectedCmd = &cobra.Command{
	Use:   "rejected <source>",
	Short: "List variables rejected for high correlation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := buildReport(cmd, args[0])
		if err != nil {
			return err
		}
		threshold := rep.CorrReject()
		if cmd.Flags().Changed("threshold") {
			threshold = rejThreshold
		}
		out := cmd.OutOrStdout()
		names := rep.RejectedVariables(threshold)
		if len(names) == 0 {
			fmt.Fprintf(out, "No variables with correlation above %.2f\n", threshold)
			return nil
		}
		for _, name := range names {
			v, _ := rep.Description().Variable(name)
			fmt.Fprintf(out, "%s\tρ=%.4f with %s\n", name, v.Correlation, v.CorrelationVar)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rejectedCmd)
	addReportFlags(rejectedCmd)
	rejectedCmd.Flags().Float64Var(&rejThreshold, "threshold", 0.9, "report variables whose correlation strictly exceeds this value")
}
