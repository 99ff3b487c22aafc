// Package agent asks Claude for issue analysis and fix plans.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/ubounty/ubounty-cli/internal/config"
	"github.com/ubounty/ubounty-cli/internal/github"
	"github.com/ubounty/ubounty-cli/internal/logger"
	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"

	// maxContextComments bounds how many issue comments go into the prompt.
	maxContextComments = 5
)

// ErrNoAPIKey is returned when the Anthropic API key is not configured.
var ErrNoAPIKey = fmt.Errorf("Anthropic API key not found. Set ANTHROPIC_API_KEY or run 'ubounty setup'")

// Agent generates remediation plans for GitHub issues through the
// Anthropic Messages API.
type Agent struct {
	cfg     *config.Config
	baseURL string
	client  *http.Client
}

// NewAgent creates an Agent. baseURL is used for testing; pass empty
// string to use the real API.
func NewAgent(cfg *config.Config, baseURL string) (*Agent, error) {
	if !cfg.HasAnthropicKey() {
		return nil, ErrNoAPIKey
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Agent{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// AnalyzeIssue produces a structured plan describing how to fix the issue.
func (a *Agent) AnalyzeIssue(ctx context.Context, issue *github.Issue, comments []github.Comment) (string, error) {
	prompt := fmt.Sprintf(`You are an expert software engineer tasked with analyzing and fixing GitHub issues.

Issue Context:
%s

Please analyze this issue and provide:
1. A summary of what needs to be done
2. Files that likely need to be modified
3. A step-by-step plan to fix the issue
4. Any potential challenges or considerations

Format your response as a clear, structured plan.`, FormatIssueContext(issue, comments))

	return a.complete(ctx, prompt)
}

// GenerateFix produces concrete code-change suggestions for the issue.
// codebaseContext is optional supplementary source material.
func (a *Agent) GenerateFix(ctx context.Context, issue *github.Issue, comments []github.Comment, codebaseContext string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert software engineer tasked with fixing GitHub issues.

Issue Context:
%s
`, FormatIssueContext(issue, comments))

	if codebaseContext != "" {
		fmt.Fprintf(&b, "\n\nCodebase Context:\n%s\n", codebaseContext)
	}

	b.WriteString(`
Please provide:
1. The specific code changes needed to fix this issue
2. Files to create or modify with exact content
3. A commit message for these changes
4. A description for a pull request

Format your response clearly with sections for each part.`)

	return a.complete(ctx, b.String())
}

// complete sends a single-turn user message and returns the first text
// block of the response.
func (a *Agent) complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":       a.cfg.Model,
		"max_tokens":  a.cfg.MaxTokens,
		"temperature": a.cfg.Temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.cfg.AnthropicAPIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling model API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
			return "", fmt.Errorf("model API error: %s", msg.String())
		}
		return "", fmt.Errorf("model API error: HTTP %d", resp.StatusCode)
	}

	text := gjson.GetBytes(body, "content.0.text")
	if !text.Exists() || text.String() == "" {
		logger.Warn("model response had no text content", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("model response contained no text")
	}
	return text.String(), nil
}

// FormatIssueContext renders an issue and up to five of its comments as
// prompt material.
func FormatIssueContext(issue *github.Issue, comments []github.Comment) string {
	body := issue.Body
	if body == "" {
		body = "No description provided"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
Title: %s
Number: #%d
State: %s
Created: %s
Author: %s

Description:
%s
`, issue.Title, issue.Number, issue.State, issue.CreatedAt.Format(time.RFC3339), issue.User.Login, body)

	if len(issue.Labels) > 0 {
		names := make([]string, len(issue.Labels))
		for i, label := range issue.Labels {
			names[i] = label.Name
		}
		fmt.Fprintf(&b, "\nLabels: %s", strings.Join(names, ", "))
	}

	if len(comments) > 0 {
		if len(comments) > maxContextComments {
			comments = comments[:maxContextComments]
		}
		fmt.Fprintf(&b, "\n\nComments (%d):\n", issue.Comments)
		for _, comment := range comments {
			fmt.Fprintf(&b, "\n---\n%s at %s:\n%s\n", comment.User.Login, comment.CreatedAt.Format(time.RFC3339), comment.Body)
		}
	}

	return b.String()
}
