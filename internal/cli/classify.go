package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ralt/updatelist/internal/update"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the classify command
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the grouped list of pending updates",
		Long: `Simulates a full upgrade of the inspected system and prints the
selected updates split into security and ordinary updates. Each stream
is grouped by the application it belongs to, by the base system, or by
package.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case FormatText, FormatJSON, FormatYAML:
			default:
				return fmt.Errorf("unknown output format %q", format)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := loadCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			classifier, err := update.FromConfig(cfg, db)
			if err != nil {
				return err
			}

			result := classifier.Classify(db)
			logrus.Infof("%d updates, %d held back", result.NumUpdates, len(result.HeldBack))

			return writeReport(cmd.OutOrStdout(), result.Report(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", FormatText, "Output format (text, json, yaml)")

	return cmd
}

func writeReport(w io.Writer, report update.Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, report)
	}
}

func writeText(w io.Writer, report update.Report) error {
	var b strings.Builder

	writeGroups(&b, "Security updates", report.SecurityGroups)
	writeGroups(&b, "Other updates", report.UpdateGroups)

	if len(report.HeldBack) > 0 {
		fmt.Fprintf(&b, "Held back: %s\n", strings.Join(report.HeldBack, ", "))
	}
	if report.DistUpgradeWouldDelete > 0 {
		fmt.Fprintf(&b, "The upgrade would remove %d packages\n", report.DistUpgradeWouldDelete)
	}
	fmt.Fprintf(&b, "%d updates\n", report.NumUpdates)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeGroups(b *strings.Builder, title string, groups []update.GroupReport) {
	if len(groups) == 0 {
		return
	}

	fmt.Fprintf(b, "%s:\n", title)
	for _, g := range groups {
		fmt.Fprintf(b, "  %s (%s, %d bytes)\n", g.Name, g.Kind, g.Size)
		for _, item := range g.Items {
			fmt.Fprintf(b, "    %s %s -> %s\n", item.Package, item.InstalledVersion, item.CandidateVersion)
		}
	}
}
