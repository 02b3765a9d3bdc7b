package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/askadit/content-service/internal/bootstrap"
	"github.com/askadit/content-service/internal/platform/config"
)

// options are the persistent flags shared by every command.
type options struct {
	profile   string
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "contentctl",
		Short: "Administer AskAdit content and its remote backup",
		Long: `contentctl exports and imports content snapshots and drives the remote
backup, using the same configuration and stores as the service.

Stop the service before writing to the embedded store with contentctl.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	root.PersistentFlags().StringVar(&opts.profile, "profile", profile, "configuration profile (configs/<profile>.yaml)")
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")

	root.AddCommand(
		newExportCmd(opts),
		newImportCmd(opts),
		newPushCmd(opts),
		newPullCmd(opts),
		newProvisionCmd(opts),
		newDisconnectCmd(opts),
		newStatusCmd(opts),
		newVersionCmd(),
	)

	return root
}

// open loads configuration and builds the components. Logs go to stderr so
// stdout stays machine readable. The caller closes the components.
func (o *options) open(cmd *cobra.Command) (*bootstrap.Components, error) {
	cfg, err := config.LoadWithOptions(config.Options{Profile: o.profile, Dir: o.configDir})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := bootstrap.NewLogger(cfg, cmd.ErrOrStderr())

	c, err := bootstrap.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building components: %w", err)
	}

	return c, nil
}

// withComponents runs fn against freshly built components and closes them.
func (o *options) withComponents(cmd *cobra.Command, fn func(*bootstrap.Components) error) (err error) {
	c, err := o.open(cmd)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := c.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing stores: %w", closeErr)
		}
	}()

	return fn(c)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contentctl %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		},
	}
}
