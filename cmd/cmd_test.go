package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"vault", "init"}, {"vault", "show"},
		{"patient", "create"}, {"patient", "list"}, {"patient", "update"}, {"patient", "delete"},
		{"session", "create"}, {"session", "list"}, {"session", "show"},
		{"session", "stats"}, {"session", "edit"}, {"session", "delete"},
		{"draft", "status"}, {"draft", "clear"},
		{"journal", "status"}, {"journal", "clear"}, {"journal", "export"}, {"journal", "migrate"},
		{"mcp"}, {"version"},
	}
	for _, path := range paths {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestSessionFlags(t *testing.T) {
	for _, name := range []string{"script", "save", "from-draft", "patient", "session"} {
		assert.NotNil(t, sessionEditCmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, sessionListCmd.Flags().Lookup("name"))
	assert.Nil(t, sessionListCmd.Flags().Lookup("session"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("journal-backend"))
}

func TestChangedFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("name", "", "")
	flags.String("notes", "", "")
	require.NoError(t, flags.Parse([]string{"--notes", ""}))

	assert.Nil(t, changedFlag(flags, "name"))
	notes := changedFlag(flags, "notes")
	require.NotNil(t, notes)
	assert.Empty(t, *notes)
	assert.Empty(t, stringFlag(flags, "missing"))
}
