package main

import (
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/peawormsworth/Finance-BitPay-API/cmd"
	"github.com/peawormsworth/Finance-BitPay-API/pkg/telemetry"
	"github.com/rudderlabs/analytics-go/v4"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	start := time.Now()
	isDebug := false
	color.NoColor = false

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	var optOut bool
	if os.Getenv("TELEMETRY_OPTOUT") != "" {
		optOut = true
	}

	telemetry.TelemetryKey = os.Getenv("TELEMETRY_KEY")
	telemetry.OptOut = optOut
	telemetry.AppVersion = version

	versionCommand := cmd.VersionCmd(commit)

	cli.VersionPrinter = func(cCtx *cli.Context) {
		err := versionCommand.Action(cCtx)
		if err != nil {
			panic(err)
		}
	}

	app := &cli.App{
		Name:     "bitpay",
		Version:  version,
		Usage:    "The CLI for creating and tracking payments through the BitPay gateway",
		Compiled: time.Now(),
		Before: func(context *cli.Context) error {
			telemetry.SendEvent("command_start", analytics.Properties{
				"command": context.Command.Name,
			})
			return nil
		},
		After: func(context *cli.Context) error {
			telemetry.SendEvent("command_end", analytics.Properties{
				"command":     context.Command.Name,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			return nil
		},
		ExitErrHandler: func(context *cli.Context, err error) {
			telemetry.SendEvent("command_error", analytics.Properties{
				"command":     context.Command.Name,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			cli.HandleExitCoder(err)
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "debug",
				Value:       false,
				Usage:       "show debug information",
				Destination: &isDebug,
			},
		},
		Commands: []*cli.Command{
			cmd.Invoice(&isDebug),
			cmd.Rates(&isDebug),
			cmd.Ledger(&isDebug),
			cmd.Environments(&isDebug),
			versionCommand,
		},
	}

	_ = app.Run(os.Args)
}
