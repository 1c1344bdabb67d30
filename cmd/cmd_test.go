package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/facereg/internal/workflow"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"bare array", "[0.1, -0.2, 0.3]", 3, false},
		{"wrapped", `{"descriptor": [0.1, 0.2]}`, 2, false},
		{"surrounding whitespace", "\n  [1]\n", 1, false},
		{"empty", "   ", 0, true},
		{"object without descriptor", `{"name": "Alice"}`, 0, true},
		{"not json", "0.1,0.2", 0, true},
		{"strings in array", `["a", "b"]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDescriptor([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDescriptor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("parseDescriptor(%q) returned %d values, want %d", tt.input, len(got), tt.want)
			}
		})
	}
}

func TestParseImportLine(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bob.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("writing photo: %v", err)
	}

	line, err := parseImportLine([]byte(`{"name":"Bob","descriptor":[1,2],"photo_file":"bob.jpg"}`), dir)
	if err != nil {
		t.Fatalf("parseImportLine failed: %v", err)
	}
	if line.Name != "Bob" || len(line.Descriptor) != 2 {
		t.Errorf("unexpected line %+v", line)
	}
	if line.Photo != "anBlZw==" {
		t.Errorf("expected photo_file to be inlined as base64, got %q", line.Photo)
	}

	inline, err := parseImportLine([]byte(`{"name":"Alice","descriptor":[1],"photo":"data:image/png;base64,AAAA","photo_file":"ignored.jpg"}`), dir)
	if err != nil {
		t.Fatalf("parseImportLine failed: %v", err)
	}
	if inline.Photo != "data:image/png;base64,AAAA" {
		t.Errorf("inline photo should win over photo_file, got %q", inline.Photo)
	}

	if _, err := parseImportLine([]byte(`{"name":"Carol","photo_file":"missing.jpg"}`), dir); !errors.Is(err, workflow.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing photo file, got %v", err)
	}
	if _, err := parseImportLine([]byte(`{broken`), dir); !errors.Is(err, workflow.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for malformed line, got %v", err)
	}
}

func TestSplitLines(t *testing.T) {
	lines, numbers := splitLines([]byte("{\"a\":1}\n\n  \n{\"b\":2}\r\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if numbers[0] != 1 || numbers[1] != 4 {
		t.Errorf("unexpected line numbers %v", numbers)
	}
	if string(lines[1]) != `{"b":2}` {
		t.Errorf("expected trimmed line, got %q", lines[1])
	}
}
