package postgres

import (
	"testing"
)

func TestGetPendingMigrationFiles(t *testing.T) {
	files, err := getPendingMigrationFiles(map[string]bool{})
	if err != nil {
		t.Fatalf("getPendingMigrationFiles failed: %v", err)
	}
	if len(files) == 0 || files[0] != "001_create_identities.sql" {
		t.Fatalf("expected 001_create_identities.sql first, got %v", files)
	}

	files, err = getPendingMigrationFiles(map[string]bool{"001_create_identities.sql": true})
	if err != nil {
		t.Fatalf("getPendingMigrationFiles failed: %v", err)
	}
	for _, f := range files {
		if f == "001_create_identities.sql" {
			t.Error("applied migration reported as pending")
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Error("nil error is not a unique violation")
	}
}

func TestTemplateParam(t *testing.T) {
	if templateParam(nil) != nil {
		t.Error("expected nil parameter for empty template")
	}
	if templateParam([]float32{1, 2}) == nil {
		t.Error("expected vector parameter for template")
	}
}
