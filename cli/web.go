package cli

import (
	"github.com/alecthomas/kong"

	"github.com/jgoi0512/centi/web"
)

type WebCmd struct {
	Port int `help:"Port to listen on." default:"8080"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, _ := globals.runContext()

	s, err := globals.openStore(runCtx)
	if err != nil {
		return err
	}
	defer s.Close()

	server := web.NewServer(s, cmd.Port)
	printInfof(ctx.Stdout, "Serving on http://127.0.0.1:%d (press Ctrl+C to stop)", cmd.Port)
	return server.ListenAndServe(runCtx)
}
