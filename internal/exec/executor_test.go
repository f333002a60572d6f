package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnoseScriptFailure(t *testing.T) {
	tests := []struct {
		name    string
		stderr  string
		wantSub string
	}{
		{
			name:    "missing script",
			stderr:  "The argument '/opt/bootkeys/vm_keystrokes.ps1' to the -File parameter does not exist.",
			wantSub: "--script",
		},
		{
			name:    "powercli not installed",
			stderr:  "Connect-VIServer: The term 'Connect-VIServer' is not recognized as a name of a cmdlet, function, script file, or executable program.",
			wantSub: "Install-Module VMware.PowerCLI",
		},
		{
			name:    "bad credentials",
			stderr:  "Connect-VIServer: Cannot complete login due to an incorrect user name or password.",
			wantSub: "vcenter_password",
		},
		{
			name:    "unreachable vcenter",
			stderr:  "Could not resolve the requested VC server.",
			wantSub: "vcenter_server",
		},
		{
			name:    "vm not found",
			stderr:  "Get-VM: VM with name 'web01' was not found using the specified filter(s).",
			wantSub: "vm_name",
		},
		{
			name:    "unknown failure",
			stderr:  "something else went wrong",
			wantSub: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiagnoseScriptFailure(tt.stderr)
			if tt.wantSub == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "first", FirstLine("\n  first  \nsecond"))
	assert.Equal(t, "", FirstLine("\n\n"))
	assert.Equal(t, "", FirstLine(""))
}
