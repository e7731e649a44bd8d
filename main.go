package main

import (
	"os"

	"github.com/brewpub/brew-publisher-go/cli"
	"github.com/brewpub/brew-publisher-go/utils"
	clitool "github.com/urfave/cli/v2"
)

var log utils.Log

func main() {
	log = utils.NewDefaultLogger(getCliLogLevel())
	app := &clitool.App{
		Name:     "Brew Publisher CLI",
		Usage:    "publish zip artifacts as GitHub releases and keep a Homebrew tap in sync",
		Commands: cli.GetCommands(log),
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func getCliLogLevel() utils.LevelType {
	switch os.Getenv("BREW_PUBLISHER_LOG_LEVEL") {
	case "ERROR":
		return utils.ERROR
	case "WARN":
		return utils.WARN
	case "DEBUG":
		return utils.DEBUG
	default:
		return utils.INFO
	}
}
