package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxLineBytes bounds a single JSONL line. Passages are short expository
// texts, so 1 MiB is generous.
const maxLineBytes = 1 << 20

// AppendFile appends records to a JSONL file, creating it (and its parent
// directory) when missing. Each record is schema-validated before writing
// so a bad build never corrupts the file.
func AppendFile(path string, recs ...Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()
	if err := WriteAll(f, recs); err != nil {
		return err
	}
	return f.Close()
}

// WriteAll writes records as JSONL, one object per line.
func WriteAll(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, rec.PassageID, err)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %d (%s): %w", i, rec.PassageID, err)
		}
	}
	return nil
}

// ReadAll parses a JSONL stream into records, schema-validating every line.
// Blank lines are skipped.
func ReadAll(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var recs []Record
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := ValidateBytes(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return recs, nil
}

// ReadFile reads and validates a JSONL corpus file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}

// Stats summarizes a corpus slice for reporting.
type Stats struct {
	Total     int
	ByLabel   map[string]int
	ByGenMode map[string]int
}

// Summarize counts records by label and generation mode.
func Summarize(recs []Record) Stats {
	st := Stats{
		Total:     len(recs),
		ByLabel:   make(map[string]int),
		ByGenMode: make(map[string]int),
	}
	for _, rec := range recs {
		st.ByLabel[rec.Label]++
		st.ByGenMode[rec.Meta.GenMode]++
	}
	return st
}
