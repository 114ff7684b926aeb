package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Company Team", "company-team"},
		{"company.team", "company.team"},
		{"My_Flow-1", "my_flow-1"},
		{"weird!@#chars", "weirdchars"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestShellSingleQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`kestra_namespace.namespaces["a.b"]`, `'kestra_namespace.namespaces["a.b"]'`},
		{"plain", "'plain'"},
		{"it's", `'it'\''s'`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ShellSingleQuote(tt.input); got != tt.expected {
				t.Errorf("ShellSingleQuote(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")

	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}

	info, err := os.Stat(nested)
	if err != nil {
		t.Fatalf("Expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}

	// Second call on an existing directory is a no-op
	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "import.sh")

	if err := WriteFileAtomic(path, []byte("#!/bin/bash\n"), 0755); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(content) != "#!/bin/bash\n" {
		t.Errorf("Unexpected file content: %q", content)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("Expected mode 0755, got %v", info.Mode().Perm())
	}

	// No temp files left behind
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the target file in dir, found %d entries", len(entries))
	}

	// Overwrite is byte-exact
	if err := WriteFileAtomic(path, []byte("#!/bin/bash\n\n"), 0755); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}
	content, _ = os.ReadFile(path)
	if string(content) != "#!/bin/bash\n\n" {
		t.Errorf("Unexpected content after overwrite: %q", content)
	}
}
