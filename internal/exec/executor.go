package exec

import (
	"regexp"
	"strings"
)

// Hint pairs a stderr pattern from the automation script with a fix.
type Hint struct {
	Pattern    *regexp.Regexp
	Suggestion string
}

// scriptFailureHints match common PowerShell/PowerCLI failures. Order
// matters: the first match wins.
var scriptFailureHints = []Hint{
	{
		// The argument '...vm_keystrokes.ps1' to the -File parameter does not exist.
		Pattern:    regexp.MustCompile(`(?i)to the -File parameter does not exist`),
		Suggestion: "The keystroke script was not found. Pass its location with --script.",
	},
	{
		// The term 'Connect-VIServer' is not recognized as a name of a cmdlet
		Pattern:    regexp.MustCompile(`(?i)'(Connect-VIServer|Get-VM|Get-View)' is not recognized`),
		Suggestion: "VMware PowerCLI is not installed: Install-Module VMware.PowerCLI -Scope CurrentUser",
	},
	{
		Pattern:    regexp.MustCompile(`(?i)(cannot complete login|incorrect user name or password|InvalidLogin)`),
		Suggestion: "vCenter rejected the credentials. Check vcenter_username and vcenter_password.",
	},
	{
		Pattern:    regexp.MustCompile(`(?i)(could not resolve|no such host|name or service not known|unable to connect)`),
		Suggestion: "vCenter is unreachable. Check vcenter_server and network access.",
	},
	{
		Pattern:    regexp.MustCompile(`(?i)VM with name '([^']+)' was not found`),
		Suggestion: "The VM was not found. Check vm_name matches the inventory name.",
	},
	{
		Pattern:    regexp.MustCompile(`(?i)(invalid certificate|certificate.*(not trusted|invalid))`),
		Suggestion: "Set-PowerCLIConfiguration -InvalidCertificateAction Ignore, or install the vCenter CA.",
	},
}

// DiagnoseScriptFailure returns a suggestion for a failed script run, or ""
// when stderr matches nothing known.
func DiagnoseScriptFailure(stderr string) string {
	for _, h := range scriptFailureHints {
		if h.Pattern.MatchString(stderr) {
			return h.Suggestion
		}
	}
	return ""
}

// FirstLine returns the first non-empty line of s, trimmed. Used to keep
// single-line summaries of multi-line PowerShell error records.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
