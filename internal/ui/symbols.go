package ui

// Unicode symbols for status lines.
const (
	SymbolSuccess  = "✓" // Step completed successfully
	SymbolFail     = "✗" // Step failed
	SymbolWarning  = "⚠" // Non-fatal problem
	SymbolPending  = "○" // Waiting
	SymbolProgress = "◐" // Step in progress
	SymbolComplete = "●" // Wait finished
	SymbolSend     = "⏎" // Keystrokes being sent
)
