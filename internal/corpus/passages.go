package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Passage is one raw input text to build examples from.
type Passage struct {
	PassageID string         `json:"passage_id"`
	Source    map[string]any `json:"source,omitempty"`
	Text      string         `json:"text"`
}

// rawPassage tolerates the key variants seen in collected passage dumps.
type rawPassage struct {
	PassageID    string         `json:"passage_id"`
	Source       map[string]any `json:"source"`
	Text         string         `json:"text"`
	Passage      string         `json:"passage"`
	Context      string         `json:"context"`
	File         string         `json:"file"`
	PassageRange string         `json:"passage_range"`
}

func (r rawPassage) text() string {
	for _, t := range []string{r.Text, r.Passage, r.Context} {
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}

// ReadPassages loads passages from a .jsonl file (one object per line) or a
// .json file holding an array. JSONL lines missing text are an error;
// array entries missing text are skipped.
func ReadPassages(path string) ([]Passage, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return readPassagesJSONL(path)
	}
	return readPassagesJSON(path)
}

func readPassagesJSONL(path string) ([]Passage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open passages: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var out []Passage
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw rawPassage
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		text := raw.text()
		if text == "" {
			return nil, fmt.Errorf("line %d: missing text", lineNo)
		}
		id := raw.PassageID
		if id == "" {
			id = fmt.Sprintf("%s:%d", stem, lineNo)
		}
		out = append(out, Passage{PassageID: id, Source: raw.Source, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read passages: %w", err)
	}
	return out, nil
}

func readPassagesJSON(path string) ([]Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read passages: %w", err)
	}
	var raws []rawPassage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse passages: expected a JSON array: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var out []Passage
	for i, raw := range raws {
		text := raw.text()
		if text == "" {
			continue
		}
		id := raw.PassageID
		if id == "" {
			fileStem := stem
			if raw.File != "" {
				fileStem = strings.TrimSuffix(filepath.Base(raw.File), filepath.Ext(raw.File))
			}
			id = fmt.Sprintf("%s__%s__%05d", fileStem, raw.PassageRange, i)
		}
		source := raw.Source
		if source == nil && (raw.File != "" || raw.PassageRange != "") {
			source = map[string]any{"file": raw.File, "passage_range": raw.PassageRange}
		}
		out = append(out, Passage{PassageID: id, Source: source, Text: text})
	}
	return out, nil
}
