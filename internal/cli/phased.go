package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ralt/updatelist/internal/phased"
	"github.com/spf13/cobra"
)

// NewPhasedCmd creates the phased command
func NewPhasedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phased PACKAGE...",
		Short: "Explain the phased update decision for packages",
		Long: `Prints, for each named package, the draw computed for this machine,
the rollout percentage of the candidate version and whether the update
is withheld.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			machineID, err := phased.ReadMachineID(cfg.MachineIDFile)
			if err != nil {
				return err
			}

			db, err := loadCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			decider := phased.NewDecider(machineID, phased.Options{
				AlwaysInclude: cfg.AlwaysIncludePhasedUpdates,
				NeverInclude:  cfg.NeverIncludePhasedUpdates,
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PACKAGE\tVERSION\tDRAW\tPERCENTAGE\tDECISION")
			for _, name := range args {
				pkg := db.Package(name)
				if pkg == nil || pkg.Candidate == nil {
					fmt.Fprintf(tw, "%s\t-\t-\t-\tunknown package\n", name)
					continue
				}

				percentage := "-"
				if value, ok := pkg.Candidate.Field(phased.PercentageField); ok {
					if _, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
						percentage = strings.TrimSpace(value) + "%"
					} else {
						percentage = "invalid"
					}
				}

				decision := "offered"
				if decider.ShouldWithhold(pkg) {
					decision = "withheld"
				}

				draw := phased.Draw(pkg.Name, pkg.Candidate.Version, machineID)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", name, pkg.Candidate.Version, draw, percentage, decision)
			}
			return tw.Flush()
		},
	}

	return cmd
}
