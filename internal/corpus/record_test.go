package corpus

import (
	"strings"
	"testing"
)

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	if err := validRecord("p1", "GOOD", "good").Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"empty passage id", func(r *Record) { r.PassageID = "" }},
		{"empty text", func(r *Record) { r.Text = "" }},
		{"no evidence", func(r *Record) { r.Evidence = nil }},
		{"empty reasoning", func(r *Record) { r.Reasoning = "" }},
		{"unknown label", func(r *Record) { r.Label = "MEDIOCRE" }},
		{"unknown diag", func(r *Record) { r.Diag = "SHRUG" }},
		{"unknown gen mode", func(r *Record) { r.Meta.GenMode = "chaotic" }},
		{"score out of range", func(r *Record) { r.Scores.QAScore = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord("p1", "GOOD", "good")
			tt.mutate(&rec)
			if err := rec.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateBytesRejectsMalformedJSON(t *testing.T) {
	err := ValidateBytes([]byte(`{"passage_id":`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("unexpected error: %v", err)
	}
}
