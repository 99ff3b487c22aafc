package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ubounty/ubounty-cli/internal/api"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current user information and wallet status",
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime()

		if !rt.API.IsAuthenticated() {
			pterm.Warning.Println("Not logged in")
			pterm.Info.Println("Run 'ubounty login' to authenticate")
			os.Exit(1)
		}

		settings, err := rt.API.GetUserSettings(cmd.Context())
		if err != nil {
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		userData := pterm.TableData{
			{"Username", "@" + settings.GitHubUsername},
		}
		if settings.Name != "" {
			userData = append(userData, []string{"Name", settings.Name})
		}
		if settings.Email != "" {
			userData = append(userData, []string{"Email", settings.Email})
		}

		pterm.DefaultSection.Println("Current User")
		if err := pterm.DefaultTable.WithData(userData).Render(); err != nil {
			pterm.Error.Printf("Error rendering table: %v\n", err)
		}

		if settings.Wallet != nil {
			renderWallet(settings.Wallet)
			if !settings.Wallet.Bound() {
				pterm.Info.Println("Tip: Bind your wallet at https://ubounty.ai/settings")
			}
		}
	},
}

func renderWallet(wallet *api.Wallet) {
	pterm.DefaultSection.Println("Wallet")

	var data pterm.TableData
	if wallet.Bound() {
		data = pterm.TableData{
			{"Status", "Bound"},
			{"Network", fmt.Sprintf("%s (Chain ID: %d)", wallet.Network, wallet.ChainID)},
			{"Address", wallet.Address},
		}
	} else {
		data = pterm.TableData{{"Status", "Not bound"}}
	}
	if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
		pterm.Error.Printf("Error rendering table: %v\n", err)
	}
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
