package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneol/mundap/internal/corpus"
	"github.com/haneol/mundap/internal/evaluate"
)

func writeRecordFile(t *testing.T, recs ...corpus.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.jsonl")
	require.NoError(t, corpus.AppendFile(path, recs...))
	return path
}

func sampleRecord(passageID, label, mode string) corpus.Record {
	return corpus.Record{
		PassageID: passageID,
		Text:      "민트초코는 호불호가 갈리는 맛이다. 그래도 꾸준히 팔린다.",
		Claim:     "민트초코는 호불호가 갈리는 맛이다.",
		Evidence:  []string{"그래도 꾸준히 팔린다."},
		Reasoning: "꾸준히 팔린다는 사실은 좋아하는 사람이 분명히 있다는 뜻이므로 호불호가 갈린다고 볼 수 있다.",
		Label:     label,
		Diag:      "OK",
		Scores:    evaluate.Scores{QAScore: 0.4, LinkScore: 0.5, LengthRunes: 40, LengthTokens: 9, EvidenceCount: 1},
		Meta:      corpus.Meta{GenMode: mode, CreatedAt: 1756500000},
	}
}

func TestCorpusCheckPrintsStats(t *testing.T) {
	path := writeRecordFile(t,
		sampleRecord("p1", "GOOD", "good"),
		sampleRecord("p2", "GOOD", "good"),
		sampleRecord("p3", "WEAK_LINK", "weak_no_grounding"),
	)

	var out bytes.Buffer
	corpusCheckCmd.SetOut(&out)
	require.NoError(t, corpusCheckCmd.RunE(corpusCheckCmd, []string{path}))

	assert.Contains(t, out.String(), "총 3건")
	assert.Contains(t, out.String(), "GOOD")
	assert.Contains(t, out.String(), "WEAK_LINK")
	assert.Contains(t, out.String(), "[weak_no_grounding] 1")
}

func TestCorpusCheckRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"passage_id":"p1"}`+"\n"), 0o644))

	err := corpusCheckCmd.RunE(corpusCheckCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReadPassageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "지문.txt")
	require.NoError(t, os.WriteFile(path, []byte("첫 문장이다. 둘째 문장이다."), 0o644))

	id, text, err := readPassage([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "지문", id)
	assert.Equal(t, "첫 문장이다. 둘째 문장이다.", text)
}

func TestRedactKey(t *testing.T) {
	assert.Equal(t, "(unset)", redactKey(""))
	assert.Equal(t, "*****", redactKey("short"))
	assert.Equal(t, "sk-a****wxyz", redactKey("sk-abcdefgh-wxyz"))
}
