package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/jgoi0512/centi/ledger"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a custom category."`
	List   CategoryListCmd   `cmd:"" help:"List categories."`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete a custom category."`
}

type CategoryAddCmd struct {
	Name  string `help:"Category name." arg:""`
	Icon  string `help:"Icon name." default:"tag"`
	Color string `help:"Color name." default:"gray"`
}

func (cmd *CategoryAddCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AddCategory(runCtx, ledger.NewCategory(cmd.Name, cmd.Icon, cmd.Color)); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Added category %q", cmd.Name))
	return nil
}

type CategoryListCmd struct{}

func (cmd *CategoryListCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	categories, err := s.Categories(runCtx)
	if err != nil {
		return err
	}

	for _, category := range categories {
		suffix := ""
		if category.IsDefault {
			suffix = "  " + dimStyle.Render("(default)")
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%s%s\n", category.Name, suffix)
	}
	return nil
}

type CategoryDeleteCmd struct {
	Name string `help:"Name of the category to delete." arg:""`
}

func (cmd *CategoryDeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteCategory(runCtx, cmd.Name); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted category %q", cmd.Name))
	return nil
}
