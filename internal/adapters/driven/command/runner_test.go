package command

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run_MissingTool(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), "docqa-no-such-tool-xyz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestRunner_Run_Echo(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	out, err := NewRunner().Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestRunner_Run_Failure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	_, err := NewRunner().Run(context.Background(), "false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "false failed")
}

func TestCheckAvailable(t *testing.T) {
	err := CheckAvailable("docqa-no-such-tool-xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Contains(t, err.Error(), "docqa-no-such-tool-xyz")
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "tesseract")
	assert.Contains(t, instructions, "pdftoppm")
	assert.Contains(t, instructions, "antiword")
}
