// Package commands implements the snowjson subcommands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/data-natewilbert/snow-json/internal/adapter"
	"github.com/data-natewilbert/snow-json/internal/catalog"
	"github.com/data-natewilbert/snow-json/internal/config"
	"github.com/data-natewilbert/snow-json/internal/discovery"
	"github.com/data-natewilbert/snow-json/internal/generator"
	"github.com/data-natewilbert/snow-json/internal/viewgen"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	ViewName string
	DryRun   bool
	ShowSQL  bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <database> <schema> <table>",
		Short: "Generate a flat view over a table's JSON columns",
		Long: `Generate inspects the table, discovers every attribute path in its
semi-structured columns, and creates a view projecting each attribute as a
typed column. Arrays of objects are unnested through lateral expansion;
other arrays are addressed by position.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ViewName, "name", "", "View name (default: <table> plus the configured suffix)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Render the DDL without executing it")
	cmd.Flags().BoolVar(&opts.ShowSQL, "show-sql", false, "Print the DDL after creating the view")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *GenerateOptions) error {
	ctx := cmd.Context()
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	logger := config.GetLogger(ctx)

	caseMode, err := viewgen.ParseCaseMode(cfg.Case)
	if err != nil {
		return err
	}
	typeMode, err := viewgen.ParseTypeMode(cfg.Types)
	if err != nil {
		return err
	}

	database, schema, table := args[0], args[1], args[2]

	viewName := opts.ViewName
	if viewName == "" {
		suffix := cfg.ViewSuffix
		if suffix == "" {
			suffix = config.DefaultViewSuffix
		}
		viewName = table + suffix
	}

	db, err := connectTarget(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	gen := generator.New(
		catalog.New(db, logger),
		discovery.New(db, logger),
		generator.NewAdapterExecutor(db),
		logger,
	)

	result, err := gen.Generate(ctx, generator.Request{
		Database: database,
		Schema:   schema,
		Table:    table,
		ViewName: viewName,
		Case:     caseMode,
		Types:    typeMode,
		DryRun:   opts.DryRun,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.DryRun {
		fmt.Fprintln(out, result.SQL)
		return nil
	}

	fmt.Fprintf(out, "View %s created (%d columns, %d sources)\n",
		result.ViewName, result.Fragments, result.Sources)
	if opts.ShowSQL {
		fmt.Fprintln(out, result.SQL)
	}
	return nil
}

// connectTarget opens and verifies a connection to the configured target.
func connectTarget(ctx context.Context, cfg *config.Config) (adapter.Adapter, error) {
	adapterCfg := cfg.Target.ToAdapterConfig()

	db, err := adapter.NewAdapter(adapterCfg)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, adapterCfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s target: %w", adapterCfg.Type, err)
	}
	return db, nil
}
