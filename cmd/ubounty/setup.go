package main

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ubounty/ubounty-cli/internal/auth"
	"github.com/ubounty/ubounty-cli/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up ubounty configuration (GitHub login, Anthropic API key, etc.)",
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime()
		confirm := auth.NewTerminalConfirmer()

		pterm.DefaultSection.Println("Step 1: GitHub Authentication")
		if rt.Auth.IsAuthenticated() {
			if profile, ok := rt.Auth.UserInfo(); ok {
				pterm.Success.Printfln("Already logged in to GitHub as @%s", profile.Login)
			}
		} else if confirm.Confirm("Would you like to log in to GitHub now?", true) {
			rt.Auth.Login(cmd.Context())
		}

		pterm.DefaultSection.Println("Step 2: Anthropic API Key")
		if rt.Config.HasAnthropicKey() {
			pterm.Success.Println("Anthropic API key is configured")
		} else {
			pterm.Info.Println("Create a .env file with: ANTHROPIC_API_KEY=your_anthropic_key")
			pterm.Info.Println("Get your API key at: https://console.anthropic.com/")
		}

		pterm.DefaultSection.Println("Step 3: Config File")
		path := filepath.Join(config.Dir(), "config.yaml")
		if confirm.Confirm("Write a starter config file to "+path+"?", false) {
			if err := config.WriteStarter(path); err != nil {
				pterm.Warning.Printfln("Could not write config file: %v", err)
			} else {
				pterm.Success.Printfln("Wrote %s", path)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
