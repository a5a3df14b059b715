package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/data-natewilbert/snow-json/internal/catalog"
	"github.com/data-natewilbert/snow-json/internal/config"
	"github.com/data-natewilbert/snow-json/internal/discovery"
	"github.com/data-natewilbert/snow-json/internal/viewgen"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	ShowPaths bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <database> <schema> <table>",
		Short: "Show a table's columns and discovered attribute paths",
		Long: `Inspect classifies the table's columns and, with --paths, lists every
attribute path discovered in its semi-structured columns, without creating
anything.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowPaths, "paths", false, "Discover and list attribute paths")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	ctx := cmd.Context()
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	logger := config.GetLogger(ctx)

	database, schema, tableName := args[0], args[1], args[2]
	qualified := fmt.Sprintf("%s.%s.%s", database, schema, tableName)

	db, err := connectTarget(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cols, err := catalog.New(db, logger).Columns(ctx, qualified)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	colTable := table.NewWriter()
	colTable.SetOutputMirror(out)
	colTable.SetStyle(table.StyleLight)
	colTable.AppendHeader(table.Row{"COLUMN", "TYPE", "KIND"})
	for _, col := range cols {
		colTable.AppendRow(table.Row{col.Name, col.DeclaredType, col.Kind.String()})
	}
	colTable.Render()

	if !opts.ShowPaths {
		fmt.Fprintf(out, "(%d columns)\n", len(cols))
		return nil
	}

	oracle := discovery.New(db, logger)
	pathTable := table.NewWriter()
	pathTable.SetOutputMirror(out)
	pathTable.SetStyle(table.StyleLight)
	pathTable.AppendHeader(table.Row{"COLUMN", "PATH", "TYPE", "ALIAS"})

	var paths int
	for _, col := range cols {
		if col.Kind != viewgen.SemiStructured {
			continue
		}
		leaves, err := oracle.LeafPaths(ctx, qualified, col.Name)
		if err != nil {
			return err
		}
		for _, leaf := range leaves {
			pathTable.AppendRow(table.Row{col.Name, leaf.Path, leaf.TypeName, leaf.Alias})
			paths++
		}
	}

	if paths > 0 {
		pathTable.Render()
	}
	fmt.Fprintf(out, "(%d columns, %d discovered paths)\n", len(cols), paths)

	return nil
}
