package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/ownedkv-contract/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "dev"

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ownedkv"
	app.Usage = "Owned key-value store client"
	app.Description = "Without configuration records are kept in " + config.DefaultPath +
		" BoltDB file of the working directory."
	app.Version = Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to YAML configuration file",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "put",
			Usage:     "create record owned by the wallet account",
			ArgsUsage: "KEY VALUE",
			Action:    putCmd,
		},
		{
			Name:      "get",
			Usage:     "print value of the record",
			ArgsUsage: "KEY",
			Action:    getCmd,
		},
		{
			Name:      "delete",
			Usage:     "delete record owned by the wallet account",
			ArgsUsage: "KEY",
			Action:    deleteCmd,
		},
		{
			Name:      "invoke",
			Usage:     "call dispatcher with the operation and arguments",
			ArgsUsage: "OP [ARGS...]",
			Action:    invokeCmd,
		},
		{
			Name:  "deploy",
			Usage: "deploy compiled contract with the wallet account",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "nef",
					Usage: "path to contract NEF file",
				},
				cli.StringFlag{
					Name:  "manifest",
					Usage: "path to contract manifest",
				},
				cli.StringFlag{
					Name:  "backend",
					Usage: "Owned KV contract hash (forwarder deployment only)",
				},
			},
			Action: deployCmd,
		},
	}

	return app
}

func newLogger(ctx *cli.Context) (*zap.Logger, error) {
	if ctx.GlobalBool("debug") {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}
