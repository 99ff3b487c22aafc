package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ubounty/ubounty-cli/internal/app"
	"github.com/ubounty/ubounty-cli/internal/github"
	"github.com/ubounty/ubounty-cli/internal/gitutil"
	"github.com/ubounty/ubounty-cli/internal/tui"
)

var (
	issuesRepo        string
	issuesState       string
	issuesLabels      string
	issuesInteractive bool
)

var listIssuesCmd = &cobra.Command{
	Use:   "list-issues",
	Short: "List GitHub issues in a repository",
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime()

		repo := resolveRepo(issuesRepo)
		client := mustGitHubClient(rt)

		var labels []string
		if issuesLabels != "" {
			labels = strings.Split(issuesLabels, ",")
		}

		issues, err := client.ListIssues(cmd.Context(), repo, issuesState, labels)
		if err != nil {
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if len(issues) == 0 {
			pterm.Info.Printfln("No %s issues found in %s", issuesState, repo)
			return
		}

		if issuesInteractive {
			program := tea.NewProgram(tui.NewBrowser(repo, issues), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				pterm.Error.Printf("Error running issue browser: %v\n", err)
				os.Exit(1)
			}
			return
		}

		data := pterm.TableData{{"#", "Title", "State", "Author", "Labels"}}
		for _, issue := range issues {
			names := make([]string, len(issue.Labels))
			for i, label := range issue.Labels {
				names[i] = label.Name
			}
			data = append(data, []string{
				fmt.Sprintf("%d", issue.Number),
				issue.Title,
				issue.State,
				"@" + issue.User.Login,
				strings.Join(names, ", "),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			pterm.Error.Printf("Error rendering table: %v\n", err)
		}
	},
}

// resolveRepo picks the target repository: the flag value when given,
// otherwise the origin remote of the current directory.
func resolveRepo(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	pterm.Info.Println("No repo specified. Detecting from current directory...")
	repo, ok := gitutil.RepoFromRemote(".")
	if !ok {
		pterm.Error.Println("Could not detect a GitHub repository here; pass one with --repo owner/name")
		os.Exit(1)
	}
	pterm.Info.Printfln("Repository: %s", repo)
	return repo
}

func mustGitHubClient(rt *app.Runtime) *github.Client {
	token := github.ResolveToken(rt.Config, rt.Store)
	client, err := github.NewClient(token, "")
	if err != nil {
		pterm.Error.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return client
}

func init() {
	listIssuesCmd.Flags().StringVarP(&issuesRepo, "repo", "r", "", "Repository in format owner/repo")
	listIssuesCmd.Flags().StringVarP(&issuesState, "state", "s", "open", "Issue state: open, closed, or all")
	listIssuesCmd.Flags().StringVarP(&issuesLabels, "labels", "l", "", "Comma-separated list of labels")
	listIssuesCmd.Flags().BoolVarP(&issuesInteractive, "interactive", "i", false, "Browse issues in an interactive TUI")
	rootCmd.AddCommand(listIssuesCmd)
}
