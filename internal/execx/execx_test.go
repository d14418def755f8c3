package execx

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRunner_Run(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	r := OSRunner{}
	require.NoError(t, r.Run(context.Background(), "sh", "-c", "exit 0"))

	err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestOSRunner_ContextTimeout(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := OSRunner{}.Run(ctx, "sleep", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
