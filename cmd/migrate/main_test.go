package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status"}, names)

	flag := cmd.PersistentFlags().Lookup("dsn")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestResolveDSN(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		dsn = "postgres://flag"
		t.Cleanup(func() { dsn = "" })

		got, err := resolveDSN()
		require.NoError(t, err)
		assert.Equal(t, "postgres://flag", got)
	})

	t.Run("falls back to config", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("DB_PRIMARY_DSN", "postgres://env")

		got, err := resolveDSN()
		require.NoError(t, err)
		assert.Equal(t, "postgres://env", got)
	})
}
