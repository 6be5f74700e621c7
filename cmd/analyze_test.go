package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneol/mundap/internal/analyzer"
)

const analyzePassage = "민초가 최고의 간식임이 분명하다. " +
	"실제로 판매량이 전년 대비 3배 증가했다는 조사 결과가 있다. " +
	"따라서 민초는 대중적인 간식으로 자리잡게 되었다."

func writePassageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passage.txt")
	require.NoError(t, os.WriteFile(path, []byte(analyzePassage), 0o644))
	return path
}

func TestAnalyzePrintsNodeTable(t *testing.T) {
	path := writePassageFile(t)

	var out bytes.Buffer
	analyzeCmd.SetOut(&out)
	require.NoError(t, runAnalyze(analyzeCmd, []string{path}))

	assert.Contains(t, out.String(), "Role")
	assert.Contains(t, out.String(), "claim")
	assert.Contains(t, out.String(), "민초가 최고의 간식임이 분명하다.")
}

func TestAnalyzePrintsJSON(t *testing.T) {
	path := writePassageFile(t)

	require.NoError(t, analyzeCmd.Flags().Set("json", "true"))
	t.Cleanup(func() { _ = analyzeCmd.Flags().Set("json", "false") })

	var out bytes.Buffer
	analyzeCmd.SetOut(&out)
	require.NoError(t, runAnalyze(analyzeCmd, []string{path}))

	var nodes []analyzer.Node
	require.NoError(t, json.Unmarshal(out.Bytes(), &nodes))
	require.NotEmpty(t, nodes)
	assert.Equal(t, analyzer.RoleClaim, nodes[0].PrimaryRole)
}
