package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/kutbudev/notion-mcp/internal/credentials"
	"github.com/urfave/cli/v2"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func NewAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Notion integration token kept in the OS keyring",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Store a Notion integration token in the keyring",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "token",
						Usage: "token to store (prompted for when omitted)",
					},
				},
				Action: func(c *cli.Context) error {
					token := c.String("token")
					if token == "" {
						prompt := &survey.Password{
							Message: "Notion integration token:",
							Help:    "Create one at https://www.notion.so/my-integrations",
						}
						if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
							return err
						}
					}
					if err := credentials.StoreToken(token); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, okStyle.Render("✓ Token saved to the system keyring"))
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "Remove the stored token",
				Action: func(c *cli.Context) error {
					if err := credentials.DeleteToken(); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, okStyle.Render("✓ Token removed from the system keyring"))
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Show which source the server would take its token from",
				Action: func(c *cli.Context) error {
					cred, ok := credentials.Resolve(credentials.DefaultSources())
					printAuthStatus(c.App.Writer, cred, ok)
					return nil
				},
			},
		},
	}
}

func printAuthStatus(w io.Writer, cred credentials.Credential, ok bool) {
	if !ok {
		fmt.Fprintln(w, warnStyle.Render("✗ No token found"))
		fmt.Fprintln(w, mutedStyle.Render(credentials.MissingMessage()))
		fmt.Fprintln(w, mutedStyle.Render("Or run: notion-mcp auth login"))
		return
	}
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("✓ Token found in"), cred.Source)
	fmt.Fprintln(w, mutedStyle.Render("Token: "+maskToken(cred.Key)))
}

// maskToken keeps the first and last four characters of long tokens.
func maskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
