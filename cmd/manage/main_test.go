package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"migrate", "auto"},
		{"seed"},
		{"loaddata"},
		{"createuser"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestSeedFlags(t *testing.T) {
	for _, name := range []string{"users", "posts", "clean", "seed"} {
		assert.NotNil(t, seedCmd.Flags().Lookup(name), name)
	}
}

func TestArgValidation(t *testing.T) {
	assert.Error(t, loaddataCmd.Args(loaddataCmd, nil))
	assert.NoError(t, loaddataCmd.Args(loaddataCmd, []string{"groups.yml"}))
	assert.Error(t, migrateDownCmd.Args(migrateDownCmd, []string{"1", "2"}))
}
