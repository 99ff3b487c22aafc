package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to GitHub using device flow authentication",
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime()

		if profile, ok := rt.Auth.UserInfo(); ok && rt.Auth.IsAuthenticated() {
			pterm.Warning.Printfln("Already logged in as @%s", profile.Login)
			pterm.Info.Println("Run 'ubounty logout' to switch accounts")
			return
		}

		if !rt.Auth.Login(cmd.Context()) {
			os.Exit(1)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove saved credentials",
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime()
		if !rt.Auth.Logout() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
