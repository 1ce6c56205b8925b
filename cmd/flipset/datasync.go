package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/flipset/internal/datasync"
)

func newExportCommand() *cobra.Command {
	var formatName, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every card and category",
		Long: `Export every card and category as JSON or YAML to re-import later, or as a printable PDF deck.
Without --output the file is written to the configured export directory. --output - writes JSON or YAML to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			format, err := exportFormat(formatName, output)
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(a.cfg.Outputs.ExportDirectory,
					fmt.Sprintf("flipset-%s.%s", time.Now().Format("20060102-150405"), format))
			}

			data, err := datasync.NewExporter(a.cards, a.categories).Export(ctx)
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}

			if format == datasync.FormatPDF {
				path, err := datasync.WriteDeckPDF(data, a.cfg.Outputs.DeckTemplate, output)
				if err != nil {
					return fmt.Errorf("datasync.WriteDeckPDF() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s\n", len(data.Cards), path)
				return nil
			}

			if output == "-" {
				return writeExport(cmd.OutOrStdout(), format, data)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(output), err)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", output, err)
			}
			if err := writeExport(f, format, data); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s > %w", output, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards and %d categories to %s\n",
				len(data.Cards), len(data.Categories), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&formatName, "format", "", "json, yaml or pdf (default: from the --output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path")
	return cmd
}

func exportFormat(formatName, output string) (datasync.Format, error) {
	switch {
	case formatName != "":
		return datasync.ParseFormat(formatName)
	case output != "" && output != "-" && filepath.Ext(output) != "":
		return datasync.FormatFromPath(output)
	default:
		return datasync.FormatJSON, nil
	}
}

func writeExport(w io.Writer, format datasync.Format, data *datasync.ExportData) error {
	switch format {
	case datasync.FormatYAML:
		if err := datasync.WriteYAML(w, data); err != nil {
			return fmt.Errorf("datasync.WriteYAML() > %w", err)
		}
	case datasync.FormatJSON:
		if err := datasync.WriteJSON(w, data); err != nil {
			return fmt.Errorf("datasync.WriteJSON() > %w", err)
		}
	default:
		return fmt.Errorf("cannot write %s to a stream", format)
	}
	return nil
}

func newImportCommand() *cobra.Command {
	var resolutionName, formatName string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import cards and categories from a JSON or YAML export",
		Long: `Import cards and categories from a JSON or YAML export. Every card gets a new ID.
A category whose name already exists is merged into the existing one, or overwritten with --resolution overwrite,
which deletes the cards belonging only to the existing category first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolution, err := datasync.ParseResolution(resolutionName)
			if err != nil {
				return err
			}
			path := args[0]
			var format datasync.Format
			if formatName != "" {
				format, err = datasync.ParseFormat(formatName)
			} else {
				format, err = datasync.FormatFromPath(path)
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			out := cmd.OutOrStdout()
			importer, err := datasync.NewImporter(a.cards, a.categories, out)
			if err != nil {
				return fmt.Errorf("datasync.NewImporter() > %w", err)
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", path, err)
			}
			defer func() { _ = f.Close() }()
			data, err := importer.Parse(f, format)
			if err != nil {
				return fmt.Errorf("importer.Parse(%s) > %w", path, err)
			}

			conflicts, err := importer.FindConflicts(ctx, data)
			if err != nil {
				return fmt.Errorf("importer.FindConflicts() > %w", err)
			}
			for _, c := range conflicts {
				_, _ = fmt.Fprintf(out, "Category %q already exists: %s\n", c.ImportedName, resolution)
			}

			result, err := importer.Import(ctx, data, datasync.ImportOptions{
				DefaultResolution: resolution,
				DryRun:            dryRun,
			})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}
			if err := a.removeFromSession(ctx, result.DeletedCardIDs); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			if dryRun {
				_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, _ = fmt.Fprintf(out, "  Cards:      %d imported, %d deleted\n", result.CardsImported, len(result.DeletedCardIDs))
			_, _ = fmt.Fprintf(out, "  Categories: %d new, %d merged\n", result.CategoriesImported, result.CategoriesMerged)
			return nil
		},
	}
	cmd.Flags().StringVar(&resolutionName, "resolution", string(datasync.ResolutionMerge), "how to handle existing category names: merge or overwrite")
	cmd.Flags().StringVar(&formatName, "format", "", "json or yaml (default: from the file extension)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing")
	return cmd
}
