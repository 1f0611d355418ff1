package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/uniedit/seeder/internal/shared/errors"
)

func TestRootCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "banners")
}

func TestBannersCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"banners", "extra"})

	assert.Error(t, cmd.Execute())
}

func TestBannersCmd_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [broken"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"banners", "--config", path})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ExitConfig, apperrors.GetExitCode(err))
}
