package notify

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReportsMissingTool(t *testing.T) {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
	default:
		t.Skipf("no native tool on %s", runtime.GOOS)
	}

	// With an empty PATH the native tool cannot be found, and Send
	// must say which tool it was missing.
	t.Setenv("PATH", "")

	err := Send("title", "body")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not available")
}
