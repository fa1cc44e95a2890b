package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dfprofile-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descFormat string
	descOutput string
)

var describeCmd = &cobra.Command{
	Use:   "describe <source>",
	Short: "Print the computed description as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var marshal func(any) ([]byte, error)
		switch descFormat {
		case "json":
			marshal = utils.PrettyJSON
		case "yaml", "yml":
			marshal = utils.YAML
		default:
			return fmt.Errorf("unsupported --format: %s (use json|yaml)", descFormat)
		}
		rep, err := buildReport(cmd, args[0])
		if err != nil {
			return err
		}
		b, err := marshal(rep.Description())
		if err != nil {
			return err
		}
		if descOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		if err := utils.SafeWriteFile(descOutput, b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote description to %s\n", descOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addReportFlags(describeCmd)
	describeCmd.Flags().StringVar(&descFormat, "format", "json", "output format: json|yaml")
	describeCmd.Flags().StringVarP(&descOutput, "output", "o", "", "write to file instead of stdout")
}
