// Package tui renders the interactive issue browser used by
// `ubounty list-issues --interactive`.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ubounty/ubounty-cli/internal/github"
)

// browserKeyMap holds key bindings for the browser actions.
type browserKeyMap struct {
	open key.Binding
	back key.Binding
	quit key.Binding
}

func newBrowserKeyMap() *browserKeyMap {
	return &browserKeyMap{
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "View Issue"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// BrowserModel is the top-level model that switches between the issue list
// and the detail page.
type BrowserModel struct {
	list     list.Model
	detail   viewport.Model
	keys     *browserKeyMap
	repo     string
	page     string // "list" or "detail"
	selected *github.Issue
}

// NewBrowser creates a BrowserModel over the given issues.
func NewBrowser(repo string, issues []github.Issue) BrowserModel {
	items := make([]list.Item, len(issues))
	for i, issue := range issues {
		items[i] = issueItem{issue: issue}
	}

	keys := newBrowserKeyMap()
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Issues in %s", repo)
	l.Styles.Title = titleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.open}
	}

	return BrowserModel{
		list: l,
		keys: keys,
		repo: repo,
		page: "list",
	}
}

// Init returns the initial command for the browser.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles browser-level messages and delegates to the active page.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		m.detail = viewport.New(msg.Width-h, msg.Height-v-2)
		if m.selected != nil {
			m.detail.SetContent(renderIssue(m.selected))
		}
		return m, nil

	case tea.KeyMsg:
		// Never intercept keys while the list filter input is active.
		if m.page == "list" && m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.open) && m.page == "list":
			if item, ok := m.list.SelectedItem().(issueItem); ok {
				issue := item.issue
				m.selected = &issue
				m.detail.SetContent(renderIssue(&issue))
				m.detail.GotoTop()
				m.page = "detail"
			}
			return m, nil

		case key.Matches(msg, m.keys.back) && m.page == "detail":
			m.page = "list"
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.page {
	case "detail":
		m.detail, cmd = m.detail.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// View renders the active page.
func (m BrowserModel) View() string {
	if m.page == "detail" && m.selected != nil {
		header := detailHeaderStyle.Render(fmt.Sprintf("#%d %s", m.selected.Number, m.selected.Title))
		help := helpStyle.Render("esc back | q quit")
		return header + "\n" + m.detail.View() + "\n" + help
	}
	return docStyle.Render(m.list.View())
}

// Selected returns the issue open in the detail view, if any.
func (m BrowserModel) Selected() *github.Issue {
	return m.selected
}

func renderIssue(issue *github.Issue) string {
	var b strings.Builder

	meta := fmt.Sprintf("%s | opened by @%s | %d comments",
		issue.State, issue.User.Login, issue.Comments)
	if !issue.CreatedAt.IsZero() {
		meta += " | " + issue.CreatedAt.Format("2006-01-02")
	}
	b.WriteString(metaStyle.Render(meta))
	b.WriteString("\n")

	if len(issue.Labels) > 0 {
		names := make([]string, len(issue.Labels))
		for i, label := range issue.Labels {
			names[i] = label.Name
		}
		b.WriteString(metaStyle.Render("labels: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if issue.Body == "" {
		b.WriteString("No description provided.")
	} else {
		b.WriteString(issue.Body)
	}

	if issue.HTMLURL != "" {
		b.WriteString("\n\n")
		b.WriteString(metaStyle.Render(issue.HTMLURL))
	}
	return b.String()
}
