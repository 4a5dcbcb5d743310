package main

import (
	"testing"

	"github.com/JayJamieson/sql-admin/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFlagsFeedConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{
		"--port", "9001",
		"--driver", "sqlite",
		"--db-url", "admin.db",
		"--log-format", "json",
		"--allow-cte-reads",
		"--describe-concurrency", "3",
	}))

	cfg, err := config.Load("", cmd.Flags())
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "admin.db", cfg.Database.URL)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Statements.AllowCTEReads)
	assert.Equal(t, 3, cfg.Introspection.Concurrency)
}

func TestRootRejectsBadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--driver", "oracle"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "unsupported database driver: oracle")
}
