package main

import (
	"os"
	"regexp"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// walletAddressPattern matches a 0x-prefixed 20-byte hex address.
var walletAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage your wallet",
}

var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wallet status",
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

		if !settings.Wallet.Bound() {
			pterm.Warning.Println("No wallet address bound")
			pterm.Info.Println("Bind your wallet at: https://ubounty.ai/settings")
			pterm.Info.Println("Or run: ubounty wallet bind <address>")
			os.Exit(1)
		}

		wallet := settings.Wallet
		pterm.Success.Println("Wallet Bound")
		pterm.Info.Printfln("Network: %s (Chain ID: %d)", wallet.Network, wallet.ChainID)
		pterm.Info.Printfln("Address: %s", wallet.Address)
		if wallet.BoundAt != "" {
			pterm.Info.Printfln("Bound at: %s", wallet.BoundAt)
		}
	},
}

var walletBindCmd = &cobra.Command{
	Use:   "bind <address>",
	Short: "Bind a wallet address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		address := args[0]

		if !walletAddressPattern.MatchString(address) {
			pterm.Error.Println("Invalid address format")
			pterm.Info.Println("Address must be 0x followed by 40 hex characters")
			os.Exit(1)
		}

		rt := mustRuntime()
		if !rt.API.IsAuthenticated() {
			pterm.Warning.Println("Not logged in")
			pterm.Info.Println("Run 'ubounty login' to authenticate")
			os.Exit(1)
		}

		wallet, err := rt.API.UpdateWallet(cmd.Context(), address)
		if err != nil {
			pterm.Error.Printf("Error: %v\n", err)
			pterm.Info.Println("Alternative: bind your wallet at https://ubounty.ai/settings")
			os.Exit(1)
		}

		pterm.Success.Println("Wallet address successfully bound!")
		pterm.Info.Printfln("Network: %s", wallet.Network)
		pterm.Info.Printfln("Address: %s", wallet.Address)
	},
}

func init() {
	walletCmd.AddCommand(walletStatusCmd)
	walletCmd.AddCommand(walletBindCmd)
	rootCmd.AddCommand(walletCmd)
}
