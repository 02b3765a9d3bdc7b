package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askadit/content-service/internal/adapters/http/dto"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/bootstrap"
	"github.com/askadit/content-service/internal/domain"
)

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the whole store as a snapshot",
		Long:  "Write the whole store as a JSON snapshot to file, or to stdout when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withComponents(cmd, func(c *bootstrap.Components) error {
				snap, err := c.Content.ExportSnapshot(cmd.Context())
				if err != nil {
					return err
				}

				data, err := domain.EncodeSnapshot(snap)
				if err != nil {
					return err
				}

				if len(args) == 0 {
					_, err = cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}

				if err := os.WriteFile(args[0], data, 0o600); err != nil {
					return fmt.Errorf("writing snapshot: %w", err)
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d topic(s) and %d quote(s) to %s.\n",
					len(snap.Topics), len(snap.Quotes), args[0])

				return nil
			})
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	var legacy bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a snapshot into the store",
		Long: `Load a snapshot file into the store, replacing its content.

With --legacy the file is a per-section document; its rows are added and
rows whose id already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			return opts.withComponents(cmd, func(c *bootstrap.Components) error {
				var result *app.ImportResult

				if legacy {
					d, err := domain.DecodeLegacy(data)
					if err != nil {
						return err
					}

					result, err = c.Content.ImportLegacy(cmd.Context(), d)
					if err != nil {
						return err
					}
				} else {
					snap, err := domain.DecodeSnapshot(data)
					if err != nil {
						return err
					}

					result, err = c.Content.ImportSnapshot(cmd.Context(), snap)
					if err != nil {
						return err
					}
				}

				return writeJSON(cmd.OutOrStdout(), dto.NewImportResponse(result))
			})
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "the file uses the legacy per-section layout")

	return cmd
}

func newPushCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the store to the remote backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd, func(c *bootstrap.Components) error {
				if err := c.Sync.Push(cmd.Context()); err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), dto.NewSyncStatusResponse(c.Sync.Status(cmd.Context())))
			})
		},
	}
}

func newPullCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the store with the remote backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd, func(c *bootstrap.Components) error {
				res, err := c.Sync.Pull(cmd.Context())
				if err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), dto.PullResponse{
					Topics:  res.Topics,
					Quotes:  res.Quotes,
					Version: res.Version,
				})
			})
		},
	}
}

func newProvisionCmd(opts *options) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a remote backup document and connect to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd, func(c *bootstrap.Components) error {
				id, err := c.Sync.Provision(cmd.Context(), token)
				if err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), dto.ProvisionResponse{DocumentID: id})
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "access token with gist scope")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newDisconnectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the remote backup; the remote document is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd, func(c *bootstrap.Components) error {
				if err := c.Sync.Disconnect(cmd.Context()); err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), dto.NewSyncStatusResponse(c.Sync.Status(cmd.Context())))
			})
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Describe the remote backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd, func(c *bootstrap.Components) error {
				return writeJSON(cmd.OutOrStdout(), dto.NewSyncStatusResponse(c.Sync.Status(cmd.Context())))
			})
		},
	}
}
