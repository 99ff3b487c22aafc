package auth

import "github.com/pterm/pterm"

// TerminalReporter renders status messages with pterm.
type TerminalReporter struct{}

// NewTerminalReporter creates the pterm-backed Reporter used by the CLI.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{}
}

func (r *TerminalReporter) Infof(format string, args ...any) {
	pterm.Info.Printfln(format, args...)
}

func (r *TerminalReporter) Successf(format string, args ...any) {
	pterm.Success.Printfln(format, args...)
}

func (r *TerminalReporter) Warnf(format string, args ...any) {
	pterm.Warning.Printfln(format, args...)
}

func (r *TerminalReporter) Errorf(format string, args ...any) {
	pterm.Error.Printfln(format, args...)
}

// TerminalConfirmer asks yes/no questions through pterm's interactive
// confirm prompt.
type TerminalConfirmer struct{}

// NewTerminalConfirmer creates the pterm-backed Confirmer used by the CLI.
func NewTerminalConfirmer() *TerminalConfirmer {
	return &TerminalConfirmer{}
}

func (c *TerminalConfirmer) Confirm(prompt string, defaultYes bool) bool {
	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(defaultYes).
		Show(prompt)
	if err != nil {
		return false
	}
	return result
}
