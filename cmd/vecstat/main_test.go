package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/vecstat/internal/stats"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestStatsCommand(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(execute(t, "stats")), "\n")
	assert.Len(t, lines, len(stats.Names()))
	kinds := make(map[string]string, len(lines))
	for _, line := range lines {
		f := strings.Fields(line)
		require.Len(t, f, 2, line)
		kinds[f[0]] = f[1]
	}
	assert.Equal(t, "pair", kinds["ts_vcorr"])
	assert.Equal(t, "single", kinds["ts_vmean"])
}

func TestComputeCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "col.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n3\n"), 0o600))

	out := execute(t, "compute", "ts_vsum", "--window", "2", path)
	assert.JSONEq(t, `{"stat":"ts_vsum","window":2,"values":[1,3,5]}`, out)
}
