package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/logging"
	"lectern/internal/worksheet"
)

func newWorksheetCommand(ctx *commandContext) *cobra.Command {
	worksheetCmd := &cobra.Command{
		Use:     "worksheet",
		Aliases: []string{"ws"},
		Short:   "Inspect and manage worksheet metadata",
	}

	worksheetCmd.AddCommand(newWorksheetListCommand(ctx))
	worksheetCmd.AddCommand(newWorksheetShowCommand(ctx))
	worksheetCmd.AddCommand(newWorksheetImportCommand(ctx))
	worksheetCmd.AddCommand(newWorksheetRemoveCommand(ctx))

	return worksheetCmd
}

func (c *commandContext) openStore() (*worksheet.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return worksheet.Open(cfg)
}

func newWorksheetListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored worksheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			metas, err := store.ListMeta(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, metas)
			}

			if len(metas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No worksheets stored.")
				return nil
			}
			rows := make([][]string, 0, len(metas))
			for _, meta := range metas {
				rows = append(rows, []string{
					meta.WorksheetID,
					meta.DocumentName,
					yesNo(meta.DRMProtected),
					strconv.Itoa(len(meta.Regions)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Worksheet", "Document", "Protected", "Regions"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newWorksheetShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <worksheet-id>",
		Short: "Show one worksheet's regions and narration steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			provider := worksheet.NewProvider(store, cfg.Paths.StaticMetaDir, logging.NewNop())
			meta, err := provider.GetMeta(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, meta)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Worksheet:  %s\n", meta.WorksheetID)
			fmt.Fprintf(out, "Document:   %s (%s)\n", meta.DocumentName, meta.DocumentID)
			fmt.Fprintf(out, "Protected:  %s", yesNo(meta.DRMProtected))
			if meta.DRMProtected && len(meta.DRMProtectedPages) > 0 {
				fmt.Fprintf(out, " (pages %s)", joinInts(meta.DRMProtectedPages))
			}
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(meta.Regions))
			for _, region := range meta.Regions {
				rows = append(rows, []string{
					region.Name,
					strconv.Itoa(region.Page),
					region.Type,
					fmt.Sprintf("%.0fx%.0f@%.0f,%.0f", region.Width, region.Height, region.X, region.Y),
					strconv.Itoa(len(region.Steps)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Region", "Page", "Type", "Bounds", "Steps"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newWorksheetImportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <worksheet-id>",
		Short: "Import a static metadata file into the store",
		Long: "Reads {worksheet-id}.json from the static metadata directory and persists it, " +
			"so later edits to the file no longer affect served metadata.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			meta, err := worksheet.LoadStatic(cfg.Paths.StaticMetaDir, args[0])
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveMeta(cmd.Context(), meta); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d regions)\n", meta.WorksheetID, len(meta.Regions))
			return nil
		},
	}
	return cmd
}

func newWorksheetRemoveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <worksheet-id>",
		Short: "Remove a worksheet from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
