package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"roxtract/internal/report"
	"roxtract/internal/rom"
	"roxtract/internal/roxtract/log"
	"roxtract/internal/roxtract/styles"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the classic summary without TUI")
	rootCmd.Flags().BoolP("json", "j", false, "Output results as JSON")
	rootCmd.Flags().BoolP("markdown", "m", false, "Print the report as rendered markdown")
	rootCmd.Flags().Int("disasm", 0, "Number of instructions to decode at the kernel start")
	rootCmd.Flags().Bool("classic-sizes", false, "Only accept 512 KiB and 2 MiB images")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")
}

var rootCmd = &cobra.Command{
	Use:   "roxtract [rom]",
	Short: "Extract the module chain from a RISC OS ROM image",
	Long: `Roxtract locates the kernel, the chain of built-in modules and the OS version
in a RISC OS ROM image. None of these are pointed at by a header; they are found
by searching for known anchors.`,
	Example: `
# Browse the modules of a ROM interactively
roxtract ros311.rom

# Print the classic summary
roxtract -n ros311.rom

# JSON output with the first eight kernel instructions
roxtract --json --disasm 8 ros311.rom
  `,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)
		_, err := ResolveCwd(cmd)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup CPU profiling if requested
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		// Setup memory profiling if requested
		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					slog.Error("Could not create memory profile", "error", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					slog.Error("Could not write memory profile", "error", err)
				}
			}()
		}

		classic, _ := cmd.Flags().GetBool("classic-sizes")
		peek, _ := cmd.Flags().GetInt("disasm")
		r, rep, err := loadReport(args[0], classic, peek)
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		markdown, _ := cmd.Flags().GetBool("markdown")

		// Plain output when piped
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
			os.Setenv("ROXTRACT_NO_COLOR", "1")
		}

		out := cmd.OutOrStdout()
		switch {
		case jsonOutput:
			return rep.WriteJSON(out)
		case markdown:
			return runMarkdown(out, rep)
		case noTUI:
			return rep.WritePlain(out)
		}

		program := tea.NewProgram(
			NewModel(r, rep),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

// loadReport loads the image at path and extracts its report.
func loadReport(path string, classic bool, peek int) (*rom.Rom, *report.Report, error) {
	policy := rom.AnySize
	if classic {
		policy = rom.ClassicSizes
	}

	r, err := rom.LoadWithPolicy(path, policy)
	if err != nil {
		slog.Debug("ROM load failed", "path", path, "error", err)
		return nil, nil, fmt.Errorf("failed to load ROM: %w", err)
	}
	slog.Debug("ROM loaded", "path", path, "size", r.Len(), "crc32", fmt.Sprintf("%08x", r.CRC32()))

	rep := report.Build(path, r, report.Options{KernelPeek: peek})
	slog.Debug("Report built", "modules", len(rep.Modules), "chain_error", rep.ChainError)
	return r, rep, nil
}

func runMarkdown(w io.Writer, rep *report.Report) error {
	width := 80
	if tw, _, err := term.GetSize(os.Stdout.Fd()); err == nil && tw > 0 {
		width = tw
	}
	_, err := io.WriteString(w, styles.RenderMarkdown(rep.Markdown(), width-2))
	return err
}

func Execute() {
	// Bypass fang's styled output for --no-tui, --json or when output is piped
	plain := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" || arg == "-j" {
			plain = true
			break
		}
	}
	if !plain && !term.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	if plain {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
