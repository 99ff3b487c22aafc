package main

import (
	"os"
	"runtime/debug"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ubounty/ubounty-cli/internal/app"
	"github.com/ubounty/ubounty-cli/internal/config"
	"github.com/ubounty/ubounty-cli/internal/logger"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ubounty",
	Short: "Enable maintainers to clear their backlog with one command",
	Long: `ubounty is a CLI tool that authenticates against GitHub, retrieves issue
data, and asks an AI model for a remediation plan. Log in once with
'ubounty login', then point 'ubounty fix-issue' at any issue in your repos.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	_ = logger.Sync()
}

func init() {
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

// mustRuntime loads the shared runtime or exits.
func mustRuntime() *app.Runtime {
	rt, err := app.Load()
	if err != nil {
		pterm.Error.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return rt
}
