package logging_test

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SunnySoftwareTech/Drafty/logging"
)

func restoreLog(t *testing.T) {
	t.Helper()
	out, flags := log.Writer(), log.Flags()
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})
}

func TestSetup_WritesToFile(t *testing.T) {
	restoreLog(t)
	path := filepath.Join(t.TempDir(), "logs", "drafty.log")

	closer, err := logging.Setup(path)
	require.NoError(t, err)

	log.Printf("sync finished for %s", "u1")
	logging.New("gist").Printf("rate limited")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sync finished for u1")
	assert.Contains(t, string(data), "[gist] ")
}

func TestSetup_StderrOnly(t *testing.T) {
	restoreLog(t)

	closer, err := logging.Setup("")
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, log.Writer())
	assert.NoError(t, closer.Close())
}
