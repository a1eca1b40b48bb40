package tokenizer

import (
	"strings"
	"testing"
)

func TestTiktokenBatchShape(t *testing.T) {
	tok, err := NewTiktoken(16)
	if err != nil {
		t.Fatalf("NewTiktoken: %v", err)
	}
	if tok.ContextLength() != 16 {
		t.Fatalf("context length %d, want 16", tok.ContextLength())
	}

	batch, err := tok.Tokenize([]string{"a photo of a cat", "hello"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(batch.IDs) != 2 || len(batch.Lengths) != 2 {
		t.Fatalf("got %d rows, want 2", len(batch.IDs))
	}
	for i, row := range batch.IDs {
		if len(row) != 16 {
			t.Errorf("row %d width %d, want 16", i, len(row))
		}
		if batch.Lengths[i] == 0 {
			t.Errorf("row %d has no tokens", i)
		}
		for j := batch.Lengths[i]; j < len(row); j++ {
			if row[j] != PadID {
				t.Errorf("row %d position %d = %d, want pad", i, j, row[j])
			}
		}
	}
}

func TestTiktokenDefaultContextLength(t *testing.T) {
	tok, err := NewTiktoken(0)
	if err != nil {
		t.Fatalf("NewTiktoken: %v", err)
	}
	if tok.ContextLength() != DefaultContextLength {
		t.Errorf("context length %d, want %d", tok.ContextLength(), DefaultContextLength)
	}
}

func TestTiktokenTruncates(t *testing.T) {
	tok, err := NewTiktoken(4)
	if err != nil {
		t.Fatalf("NewTiktoken: %v", err)
	}

	long := strings.Repeat("many different words here ", 20)
	batch, err := tok.Tokenize([]string{long})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if batch.Lengths[0] != 4 {
		t.Errorf("length %d, want 4", batch.Lengths[0])
	}
	if len(batch.IDs[0]) != 4 {
		t.Errorf("width %d, want 4", len(batch.IDs[0]))
	}
}

func TestTiktokenDeterministic(t *testing.T) {
	tok, err := NewTiktoken(0)
	if err != nil {
		t.Fatalf("NewTiktoken: %v", err)
	}

	a, err := tok.Tokenize([]string{"a photo of a cat"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	b, err := tok.Tokenize([]string{"a photo of a cat"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for i := range a.IDs[0] {
		if a.IDs[0][i] != b.IDs[0][i] {
			t.Fatalf("token %d differs between identical inputs", i)
		}
	}
}

func TestTiktokenEmptyBatch(t *testing.T) {
	tok, err := NewTiktoken(0)
	if err != nil {
		t.Fatalf("NewTiktoken: %v", err)
	}
	if _, err := tok.Tokenize(nil); err == nil {
		t.Error("accepted empty batch")
	}
}
