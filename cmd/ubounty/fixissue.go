package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ubounty/ubounty-cli/internal/agent"
	"github.com/ubounty/ubounty-cli/internal/app"
	"github.com/ubounty/ubounty-cli/internal/github"
)

var (
	fixRepo    string
	fixComment bool
	fixAutoPR  bool
)

var fixIssueCmd = &cobra.Command{
	Use:   "fix-issue <number>",
	Short: "Analyze a GitHub issue and produce a fix plan using AI",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		number, err := strconv.Atoi(args[0])
		if err != nil || number < 1 {
			pterm.Error.Printf("Invalid issue number: %s\n", args[0])
			os.Exit(1)
		}

		rt := mustRuntime()
		repo := resolveRepo(fixRepo)
		client := mustGitHubClient(rt)

		fixer, err := agent.NewAgent(rt.Config, "")
		if err != nil {
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ctx := cmd.Context()

		issue, err := client.GetIssue(ctx, repo, number)
		if err != nil {
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		pterm.Info.Printfln("Fixing issue #%d: %s", issue.Number, issue.Title)

		var comments []github.Comment
		if issue.Comments > 0 {
			comments, err = client.ListIssueComments(ctx, repo, number, 5)
			if err != nil {
				pterm.Warning.Printfln("Could not fetch comments: %v", err)
			}
		}

		spinner, _ := pterm.DefaultSpinner.Start("Analyzing issue...")
		analysis, err := fixer.AnalyzeIssue(ctx, issue, comments)
		if err != nil {
			spinner.Fail("Analysis failed")
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		spinner.Success("Analysis complete")
		fmt.Println(analysis)

		spinner, _ = pterm.DefaultSpinner.Start("Generating fix...")
		fixPlan, err := fixer.GenerateFix(ctx, issue, comments, "")
		if err != nil {
			spinner.Fail("Fix generation failed")
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		spinner.Success("Fix generated")
		fmt.Println(fixPlan)

		if fixComment {
			if err := client.AddIssueComment(ctx, repo, number, fixPlan); err != nil {
				pterm.Error.Printf("Error posting comment: %v\n", err)
				os.Exit(1)
			}
			pterm.Success.Printfln("Posted fix plan as a comment on issue #%d", number)
		}

		if fixAutoPR || rt.Config.AutoPR {
			openFixPR(cmd, rt, client, repo, issue, fixPlan)
		}
	},
}

func openFixPR(cmd *cobra.Command, rt *app.Runtime, client *github.Client, repo string, issue *github.Issue, fixPlan string) {
	ctx := cmd.Context()
	base := rt.Config.DefaultBaseBranch
	branch := fmt.Sprintf("ubounty/issue-%d", issue.Number)

	if err := client.CreateBranch(ctx, repo, branch, base); err != nil {
		pterm.Error.Printf("Error creating branch: %v\n", err)
		os.Exit(1)
	}
	pterm.Success.Printfln("Created branch: %s", branch)

	title := fmt.Sprintf("Fix #%d: %s", issue.Number, issue.Title)
	pr, err := client.CreatePullRequest(ctx, repo, title, fixPlan, branch, base)
	if err != nil {
		pterm.Error.Printf("Error creating pull request: %v\n", err)
		os.Exit(1)
	}
	pterm.Success.Printfln("Created pull request: %s", pr.HTMLURL)
}

func init() {
	fixIssueCmd.Flags().StringVarP(&fixRepo, "repo", "r", "", "Repository in format owner/repo")
	fixIssueCmd.Flags().BoolVarP(&fixComment, "comment", "c", false, "Post the fix plan as a comment on the issue")
	fixIssueCmd.Flags().BoolVarP(&fixAutoPR, "auto-pr", "p", false, "Open a draft pull request carrying the fix plan")
	rootCmd.AddCommand(fixIssueCmd)
}
