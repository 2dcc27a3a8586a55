package main

import (
	"log"
	"os"

	"github.com/kutbudev/notion-mcp/internal/cli/commands"
	"github.com/urfave/cli/v2"
)

// Version will be set during build with ldflags
var Version = "0.1.8"

func main() {
	app := &cli.App{
		Name:    "notion-mcp",
		Usage:   "MCP server exposing a Notion workspace to AI assistants",
		Version: Version,
		// With no command the server starts, which is how MCP hosts launch it.
		Flags:  commands.ServeFlags(),
		Action: commands.ServeAction(Version),
		Commands: []*cli.Command{
			commands.NewServeCommand(Version),
			commands.NewToolsCommand(),
			commands.NewConfigCommand(Version),
			commands.NewAuthCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
