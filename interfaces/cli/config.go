package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/mayankeq/checkly-mcp/domain/config"
	infraconfig "github.com/mayankeq/checkly-mcp/infrastructure/config"
)

func (a *App) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(a.newConfigShowCmd(), a.newConfigSchemaCmd())
	return cmd
}

func (a *App) newConfigShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the API key redacted",
		Long: `Print the configuration the server would run with: defaults, then the
file given with --config, then environment variables. The result is
validated, so missing credentials are reported here as they would be by
serve.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infraconfig.Resolve(configPath, a.lookup)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			return a.printJSON(cfg.Redacted())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}

func (a *App) newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := infraconfig.SchemaJSON()
			if err != nil {
				return fmt.Errorf("generate schema: %w", err)
			}
			_, err = fmt.Fprintln(a.stdout, string(data))
			return err
		},
	}
}

// loadUnvalidated resolves configuration without requiring credentials,
// for commands that never call the API.
func (a *App) loadUnvalidated(path string) (domainconfig.ServerConfig, error) {
	cfg := domainconfig.Default()
	if path != "" {
		var err error
		cfg, err = infraconfig.NewLoaderWithOptions(infraconfig.WithLookup(a.lookup)).LoadFile(path, cfg)
		if err != nil {
			return cfg, fmt.Errorf("load configuration: %w", err)
		}
	}
	infraconfig.ApplyEnv(&cfg, a.lookup)
	return cfg, nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
