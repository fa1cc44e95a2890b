package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/dfprofile-cli/internal/config"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dfprofile configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "bins: %d\n", c.Bins)
		fmt.Fprintf(out, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(out, "corr_reject: %.3f\n", c.CorrReject)
		fmt.Fprintf(out, "freq_top: %d\n", c.FreqTop)
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "high_cardinality: %d\n", c.HighCardinality)
		if c.Decimal != "" {
			fmt.Fprintf(out, "decimal: %s\n", c.Decimal)
		}
		if c.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		}
		if c.DBFSHost != "" {
			fmt.Fprintf(out, "dbfs_host: %s\n", c.DBFSHost)
		}
		fmt.Fprintf(out, "dbfs_token: %s\n", mask(c.DBFSToken))
		fmt.Fprintf(out, "http_timeout_sec: %d\n", c.HTTPTimeoutSec)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		positive := func(lo int) (int, error) {
			i, err := cast.ToIntE(val)
			if err != nil || i < lo {
				return 0, fmt.Errorf("invalid int for %s: %v", key, val)
			}
			return i, nil
		}
		var err error
		switch key {
		case "bins":
			cfg.Bins, err = positive(1)
		case "sample_rows":
			cfg.SampleRows, err = positive(0)
		case "corr_reject":
			f, ferr := cast.ToFloat64E(val)
			if ferr != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid float for corr_reject: %v (want 0..1)", val)
			}
			cfg.CorrReject = f
		case "freq_top":
			cfg.FreqTop, err = positive(1)
		case "max_rows":
			cfg.MaxRows, err = positive(0)
		case "high_cardinality":
			cfg.HighCardinality, err = positive(1)
		case "decimal":
			switch strings.ToLower(val) {
			case ".", "dot":
				cfg.Decimal = "."
			case ",", "comma":
				cfg.Decimal = ","
			case "", "auto":
				cfg.Decimal = ""
			default:
				return fmt.Errorf("invalid decimal: %s (use '.'|'comma'|'auto')", val)
			}
		case "output_dir":
			cfg.OutputDir = val
		case "dbfs_host":
			cfg.DBFSHost = val
		case "dbfs_token":
			cfg.DBFSToken = val
		case "http_timeout_sec":
			cfg.HTTPTimeoutSec, err = positive(1)
		default:
			return fmt.Errorf("unknown key: %s (known: %s)", key, strings.Join(cfgpkg.Keys, ", "))
		}
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
