package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsSource_EnvOverride(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	src := migrationsSource()
	assert.Nil(t, src.FS)
	assert.Equal(t, "/custom/migrations", src.Dir)
	assert.Equal(t, "/custom/migrations", createDir())
}

func TestMigrationsSource_DefaultEmbedded(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")

	src := migrationsSource()
	assert.NotNil(t, src.FS)
	assert.Equal(t, "migrations", src.Dir)
	assert.Equal(t, "db/migrations", createDir())
}
