package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/KaramelBytes/dfprofile-cli/internal/assets"
	"github.com/KaramelBytes/dfprofile-cli/internal/dbfs"
	"github.com/KaramelBytes/dfprofile-cli/internal/report"
	"github.com/KaramelBytes/dfprofile-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	stdMode   string
	stdTarget string
	stdRoot   string
	stdOutput string
)

var standaloneCmd = &cobra.Command{
	Use:   "standalone <source>",
	Short: "Publish report assets and render a page that links them locally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if stdMode != report.ModeDatabricks {
			return fmt.Errorf("%w: %s (only %s is supported)", report.ErrUnsupportedMode, stdMode, report.ModeDatabricks)
		}
		fs, err := assetTarget()
		if err != nil {
			return err
		}
		rep, err := buildReport(cmd, args[0])
		if err != nil {
			return err
		}
		page, err := rep.RenderStandalone(stdMode, fs)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Published assets under %s (%s)\n", report.StandaloneRoot, stdTarget)
		if stdOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), page)
			return nil
		}
		if err := utils.SafeWriteFile(stdOutput, []byte(page)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote standalone report to %s\n", stdOutput)
		return nil
	},
}

func assetTarget() (assets.FileSystem, error) {
	switch stdTarget {
	case "local":
		root := stdRoot
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			root = wd
		}
		if err := utils.EnsureDir(root); err != nil {
			return nil, err
		}
		return assets.NewLocal(root), nil
	case "dbfs":
		c := effectiveConfig()
		client, err := dbfs.NewClient(c.DBFSHost, c.DBFSToken, time.Duration(c.HTTPTimeoutSec)*time.Second, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, fmt.Errorf("unsupported --target: %s (use local|dbfs)", stdTarget)
}

func init() {
	rootCmd.AddCommand(standaloneCmd)
	addReportFlags(standaloneCmd)
	standaloneCmd.Flags().StringVar(&stdMode, "mode", report.ModeDatabricks, "standalone mode (only databricks)")
	standaloneCmd.Flags().StringVar(&stdTarget, "target", "dbfs", "where to publish assets: dbfs | local")
	standaloneCmd.Flags().StringVar(&stdRoot, "root", "", "root directory for --target local (default: working dir)")
	standaloneCmd.Flags().StringVarP(&stdOutput, "output", "o", "", "write the page here instead of stdout")
}
