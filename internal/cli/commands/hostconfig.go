package commands

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v2"
)

const binaryName = "notion-mcp"

// NewConfigCommand prints the snippet an MCP host needs to launch this server.
func NewConfigCommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print MCP config for clients",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "client",
				Aliases: []string{"c"},
				Usage:   "target client (generic|gemini)",
				Value:   "generic",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "also copy the config to the clipboard",
			},
		},
		Action: func(c *cli.Context) error {
			var cfg map[string]any
			switch strings.ToLower(c.String("client")) {
			case "generic":
				cfg = genericHostConfig()
			case "gemini":
				cfg = geminiExtensionManifest(version)
			default:
				return fmt.Errorf("unknown client %q (expected generic or gemini)", c.String("client"))
			}

			if err := writeJSON(c.App.Writer, cfg); err != nil {
				return err
			}
			if !c.Bool("copy") {
				return nil
			}
			text, err := prettyString(cfg)
			if err != nil {
				return err
			}
			if err := clipboard.WriteAll(text); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Fprintln(c.App.ErrWriter, "Copied to clipboard.")
			return nil
		},
	}
}

func serverEntry() map[string]any {
	return map[string]any{
		"command": binaryName,
		"args":    []string{"serve"},
	}
}

func genericHostConfig() map[string]any {
	entry := serverEntry()
	entry["env"] = map[string]string{"NOTION_API_KEY": "<your-integration-token>"}
	return map[string]any{
		"mcpServers": map[string]any{
			"notion": entry,
		},
	}
}

// geminiExtensionManifest is the gemini-extension.json shipped with release
// bundles. The token comes from GEMINI_NOTION_API_KEY in the host environment.
func geminiExtensionManifest(version string) map[string]any {
	return map[string]any{
		"name":    binaryName,
		"version": version,
		"mcpServers": map[string]any{
			"notion": serverEntry(),
		},
	}
}

func prettyString(v any) (string, error) {
	var b strings.Builder
	if err := writeJSON(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}
