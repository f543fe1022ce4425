package cmd

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var crcCmd = &cobra.Command{
	Use:    "crc [file]",
	Short:  "Print the CRC-32 used to fingerprint ROM images",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := fileCRC32(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("%08x  %s\n", sum, args[0])
		return nil
	},
}

func fileCRC32(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := crc32.NewIEEE()
	buf := make([]byte, 8192)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	return h.Sum32(), nil
}

func init() {
	rootCmd.AddCommand(crcCmd)
}
