package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"roxtract/internal/report"
)

var modulesCmd = &cobra.Command{
	Use:   "modules [rom]",
	Short: "List the module chain of a ROM",
	Long: `List every module of the chain with its offset, length and title.
Help strings are included with --help-strings.`,
	Example: `
# List modules
roxtract modules ros311.rom

# Include help strings
roxtract modules --help-strings ros311.rom
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classic, _ := cmd.Flags().GetBool("classic-sizes")
		withHelp, _ := cmd.Flags().GetBool("help-strings")

		_, rep, err := loadReport(args[0], classic, 0)
		if err != nil {
			return err
		}
		if err := writeModules(cmd.OutOrStdout(), rep, withHelp); err != nil {
			return err
		}
		if rep.ChainError != "" {
			cmd.PrintErrf("warning: %s\n", rep.ChainError)
		}
		return nil
	},
}

func writeModules(w io.Writer, rep *report.Report, withHelp bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range rep.Modules {
		title := m.Title
		if m.Error != "" {
			title = "[title unreadable]"
		}
		if withHelp {
			fmt.Fprintf(tw, "%06x\t%d\t%s\t%s\n", m.Offset, m.Length, title, m.Help)
		} else {
			fmt.Fprintf(tw, "%06x\t%d\t%s\n", m.Offset, m.Length, title)
		}
	}
	return tw.Flush()
}

func init() {
	modulesCmd.Flags().Bool("classic-sizes", false, "Only accept 512 KiB and 2 MiB images")
	modulesCmd.Flags().Bool("help-strings", false, "Print each module's help string")
	rootCmd.AddCommand(modulesCmd)
}
