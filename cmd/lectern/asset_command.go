package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/fileutil"
)

func newAssetCommand(ctx *commandContext) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage stored worksheet assets",
	}
	assetCmd.AddCommand(newAssetImportCommand(ctx))
	return assetCmd
}

func newAssetImportCommand(ctx *commandContext) *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "import <worksheet-id> <file>",
		Short: "Copy a document into the asset store",
		Long: "Copies the file into the legacy layout, or into the owner-scoped library " +
			"when --owner is given. The copy is verified by size and SHA-256 before the " +
			"command reports success.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			worksheetID := strings.TrimSpace(args[0])
			if worksheetID == "" || strings.ContainsAny(worksheetID, `/\`) {
				return fmt.Errorf("invalid worksheet id %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			name := worksheetID + cfg.Content.AssetExtension
			dst := filepath.Join(cfg.Paths.LegacyDir, name)
			if owner := strings.TrimSpace(ownerID); owner != "" {
				dst = filepath.Join(cfg.Paths.LibraryDir, owner, name)
			}

			written, err := fileutil.VerifiedCopy(args[1], dst)
			if err != nil {
				return err
			}
			if max := cfg.Content.MaxAssetBytes; max > 0 && written > max {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"Warning: asset is %d bytes, above the configured serving limit of %d\n", written, max)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d bytes) to %s\n", worksheetID, written, dst)
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "Store the asset under this owner's library")
	return cmd
}
