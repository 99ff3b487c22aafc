package tui

import (
	"fmt"
	"strings"

	"github.com/ubounty/ubounty-cli/internal/github"
)

// issueItem adapts a GitHub issue to the bubbles list item interface.
type issueItem struct {
	issue github.Issue
}

func (i issueItem) Title() string {
	return fmt.Sprintf("#%d %s", i.issue.Number, i.issue.Title)
}

func (i issueItem) Description() string {
	parts := []string{i.issue.State, "@" + i.issue.User.Login}
	if len(i.issue.Labels) > 0 {
		names := make([]string, len(i.issue.Labels))
		for j, label := range i.issue.Labels {
			names[j] = label.Name
		}
		parts = append(parts, strings.Join(names, ", "))
	}
	return strings.Join(parts, " | ")
}

func (i issueItem) FilterValue() string {
	return i.Title()
}
