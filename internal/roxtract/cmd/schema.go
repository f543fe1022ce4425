package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"roxtract/internal/report"
)

// Config lists the settings roxtract reads from flags and the environment.
type Config struct {
	Debug        bool   `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	LogLevel     string `json:"logLevel,omitempty" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,description=Minimum log level (ROXTRACT_LOG_LEVEL)"`
	NoColor      bool   `json:"noColor" jsonschema:"title=No Color,description=Disable listing colours (ROXTRACT_NO_COLOR)"`
	Disasm       int    `json:"disasm,omitempty" jsonschema:"title=Disassembly,minimum=0,description=Instructions to decode at the kernel start"`
	ClassicSizes bool   `json:"classicSizes" jsonschema:"title=Classic Sizes,description=Only accept 512 KiB and 2 MiB images"`
}

var schemaCmd = &cobra.Command{
	Use:    "schema [config|report]",
	Short:  "Generate JSON schema for configuration or report output",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v any = &Config{}
		if len(args) == 1 {
			switch args[0] {
			case "config":
			case "report":
				v = &report.Report{}
			default:
				return fmt.Errorf("unknown schema %q", args[0])
			}
		}

		reflector := new(jsonschema.Reflector)
		bts, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
