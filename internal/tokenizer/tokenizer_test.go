package tokenizer

import "testing"

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter("")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	if model != DefaultModel {
		t.Fatalf("expected model %s, got %q", DefaultModel, model)
	}
	tokens, err := counter.CountString(`{"command":"toolx","available":true}`)
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}

func TestNewCounterFallsBackForUnknownModels(t *testing.T) {
	counter, model, err := NewCounter("claude-sonnet")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	if model != "cl100k_base" || counter.Name() != "cl100k_base" {
		t.Fatalf("expected cl100k_base fallback, got model %q name %q", model, counter.Name())
	}
}

func TestNilEncodingCounter(t *testing.T) {
	if _, err := (openAICounter{}).CountString("hello"); err == nil {
		t.Fatalf("expected error for nil encoding")
	}
}
