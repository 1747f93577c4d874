package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/jgoi0512/centi/ledger"
)

type CheckCmd struct{}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, collector := globals.runContext()
	defer reportTelemetry(ctx.Stderr, collector)

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	accounts, err := s.Accounts(runCtx)
	if err != nil {
		return err
	}

	engine := ledger.NewEngine(s)
	if err := engine.Check(runCtx); err != nil {
		var verrs *ledger.ValidationErrors
		if errors.As(err, &verrs) {
			return renderErrors(ctx, verrs.Errors)
		}
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("All %d account(s) are consistent", len(accounts)))
	return nil
}
