package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"roxtract/internal/rom"
)

var versionsCmd = &cobra.Command{
	Use:   "versions [rom]",
	Short: "List catalogued releases, or identify a ROM against them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			return writeCatalog(out, rom.Catalog())
		}

		r, err := rom.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load ROM: %w", err)
		}
		if k, ok := r.Identify(); ok {
			fmt.Fprintf(out, "%s\n", k.Name)
			return nil
		}
		fmt.Fprintf(out, "unknown (crc32 %08x)\n", r.CRC32())
		return nil
	},
}

func writeCatalog(w io.Writer, known []rom.KnownVersion) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCRC32\tINTERNAL\tAT")
	for _, k := range known {
		fmt.Fprintf(tw, "%s\t%08x\t%q\t%04x\n", k.Name, k.CRC32, k.Internal, k.InternalOffset)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
