package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs the root command with args and returns its stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	RootCmd.SetArgs(args)
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
	})
	err := RootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range RootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "events", "calibrate", "algos"})
}

func TestRootCommand_Help(t *testing.T) {
	out, err := executeRoot(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "perfstamp")
	assert.Contains(t, out, "calibrate")
}

func TestExecute_UnknownCommand(t *testing.T) {
	RootCmd.SetArgs([]string{"frobnicate"})
	RootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		RootCmd.SetErr(nil)
	})
	assert.Error(t, Execute())
}

func TestAlgosCommand(t *testing.T) {
	out, err := executeRoot(t, "algos", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Kind,Name,Description\n")
	assert.Contains(t, out, "algo,fill0,element fill with 0\n")
	assert.Contains(t, out, "perf-col,uncR,unc_arb_trk_requests.drd_direct\n")
}
