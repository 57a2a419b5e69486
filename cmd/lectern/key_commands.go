package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/protect"
)

func newKeyCommand() *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Content key utilities",
	}
	keyCmd.AddCommand(newKeyGenerateCommand())
	return keyCmd
}

func newKeyGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "generate",
		Short:       "Generate a new 32-byte content key",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := protect.GenerateKey()
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, key)
			fmt.Fprintln(cmd.ErrOrStderr(), "Store this as content_key in config.toml or export LECTERN_CONTENT_KEY.")
			return nil
		},
	}
}

// newVerifyCommand round-trips a stored asset through encrypt and decrypt so
// an operator can confirm the configured key before rollout.
func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var ownerID string

	cmd := &cobra.Command{
		Use:   "verify <worksheet-id>",
		Short: "Encrypt and decrypt a stored asset with the configured key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			svc, err := protect.NewService(cfg, nil)
			if err != nil {
				return err
			}
			if !svc.KeyConfigured() {
				return fmt.Errorf("no content key configured; run `lectern key generate` first")
			}

			original, path, err := svc.ResolveAsset(cmd.Context(), ownerID, args[0])
			if err != nil {
				return err
			}

			payload, err := svc.EncryptAsset(cmd.Context(), ownerID, args[0], "cli-verify")
			if err != nil {
				return err
			}

			keyBytes, err := cfg.ContentKeyBytes()
			if err != nil {
				return err
			}
			key, err := protect.ImportKey(keyBytes, protect.UsageDecrypt)
			if err != nil {
				return err
			}
			asset, err := protect.Decrypt(payload, key)
			if err != nil {
				return err
			}
			defer asset.Release()

			if !bytes.Equal(asset.Bytes(), original) {
				return fmt.Errorf("decrypted bytes differ from stored asset %s", path)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Asset:      %s\n", path)
			fmt.Fprintf(out, "Size:       %d bytes\n", len(original))
			fmt.Fprintf(out, "Ciphertext: %d base64 chars\n", len(payload.CiphertextB64))
			fmt.Fprintln(out, "Round trip OK")
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "Owner scope for asset resolution")
	return cmd
}
