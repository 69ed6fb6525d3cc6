package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/twcli/twcli/commands"
	"github.com/twcli/twcli/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := commands.NewApp(ctx, commands.Deps{})
	err := app.Run(os.Args)
	if err != nil {
		stop()
		log.L.Fatal(err)
	}
}
