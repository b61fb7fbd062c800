package database

import (
	"testing"
)

func TestEncodeTemplate_Empty(t *testing.T) {
	if EncodeTemplate(nil) != nil {
		t.Error("expected nil blob for nil template")
	}
	got, err := DecodeTemplate(nil)
	if err != nil || got != nil {
		t.Errorf("expected nil template for empty blob, got %v, %v", got, err)
	}
}

func TestDecodeTemplate_PreservesValues(t *testing.T) {
	in := []float32{-0.125, 0, 0.5, 3.25}
	blob := EncodeTemplate(in)
	if len(blob) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(blob))
	}

	out, err := DecodeTemplate(blob)
	if err != nil {
		t.Fatalf("DecodeTemplate failed: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("value %d: got %v, want %v", i, out[i], in[i])
		}
	}
}

func TestDecodeTemplate_BadLength(t *testing.T) {
	if _, err := DecodeTemplate([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}

func TestStoredIdentity_HasTemplate(t *testing.T) {
	if (&StoredIdentity{}).HasTemplate() {
		t.Error("identity without template reported HasTemplate")
	}
	if !(&StoredIdentity{Template: []float32{1}}).HasTemplate() {
		t.Error("identity with template reported no template")
	}
}
