// Package workflow provides tests for workflow registry and interfaces.
package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
)

// MockHandler is a mock workflow handler for testing.
type MockHandler struct {
	name           string
	source         string
	target         string
	initCalled     bool
	executeCalled  bool
	shouldFailInit bool
	shouldFailExec bool
}

func (m *MockHandler) Name() string           { return m.name }
func (m *MockHandler) SourcePlatform() string { return m.source }
func (m *MockHandler) TargetPlatform() string { return m.target }

func (m *MockHandler) Initialize(cfg *config.Config, log *logger.Logger) error {
	m.initCalled = true
	if m.shouldFailInit {
		return &testError{"mock init error"}
	}
	return nil
}

func (m *MockHandler) Execute(ctx context.Context) error {
	m.executeCalled = true
	if m.shouldFailExec {
		return &testError{"mock execute error"}
	}
	return nil
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestWorkflowRegistry(t *testing.T) {
	t.Run("Register and Get", func(t *testing.T) {
		registry := NewRegistry()
		handler := &MockHandler{
			name:   "Test Handler",
			source: "kestra",
			target: "terraform",
		}

		err := registry.Register(handler)
		if err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		retrieved, err := registry.Get("kestra", "terraform")
		if err != nil {
			t.Fatalf("Failed to get handler: %v", err)
		}

		if retrieved != handler {
			t.Error("Retrieved handler is not the same as registered handler")
		}
	})

	t.Run("Register Duplicate", func(t *testing.T) {
		registry := NewRegistry()
		handler1 := &MockHandler{source: "kestra", target: "terraform"}
		handler2 := &MockHandler{source: "kestra", target: "terraform"}

		if err := registry.Register(handler1); err != nil {
			t.Fatalf("Failed to register first handler: %v", err)
		}
		if err := registry.Register(handler2); err == nil {
			t.Error("Expected error registering duplicate handler, got nil")
		}
	})

	t.Run("Get Unknown Path", func(t *testing.T) {
		registry := NewRegistry()
		if _, err := registry.Get("airflow", "terraform"); err == nil {
			t.Error("Expected error for unregistered migration path, got nil")
		}
	})

	t.Run("List", func(t *testing.T) {
		registry := NewRegistry()
		if err := registry.Register(&MockHandler{source: "kestra", target: "terraform"}); err != nil {
			t.Fatal(err)
		}
		if got := len(registry.List()); got != 1 {
			t.Errorf("Expected 1 registered handler, got %d", got)
		}
	})
}

func TestKestraToTerraformHandlerRegistration(t *testing.T) {
	handler := NewKestraToTerraformHandler()

	if handler.SourcePlatform() != "kestra" {
		t.Errorf("Expected source platform 'kestra', got '%s'", handler.SourcePlatform())
	}
	if handler.TargetPlatform() != "terraform" {
		t.Errorf("Expected target platform 'terraform', got '%s'", handler.TargetPlatform())
	}

	cfg := &config.Config{
		BaseURL:   "http://localhost:8080",
		Tenant:    "main",
		APIToken:  "tok_abc123",
		OutputDir: t.TempDir(),
	}
	if err := handler.Initialize(cfg, logger.New(false)); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if handler.client == nil || handler.exporter == nil {
		t.Error("Expected client and exporter to be initialized")
	}
}

func TestExecuteWritesArtifactsAndDeclarations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/main/namespaces/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"total":   1,
			"results": []map[string]any{{"id": "company.team"}},
		})
	})
	mux.HandleFunc("/api/v1/main/flows/company.team", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{"id": "hello-world", "namespace": "company.team"}})
	})
	mux.HandleFunc("/api/v1/main/namespaces/company.team/files/directory", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]any{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	outputDir := t.TempDir()
	cfg := &config.Config{
		BaseURL:   server.URL,
		Tenant:    "main",
		APIToken:  "tok_abc123",
		OutputDir: outputDir,
	}

	handler := NewKestraToTerraformHandler()
	if err := handler.Initialize(cfg, logger.New(false)); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := handler.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	for _, name := range []string{
		config.TFVarsFileName,
		config.ImportScriptFileName,
		"provider.tf",
		"variables.tf",
		"main.tf",
	} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("Expected %s after Execute: %v", name, err)
		}
	}
}

func TestExecuteConnectionFailureWritesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	outputDir := t.TempDir()
	cfg := &config.Config{
		BaseURL:   server.URL,
		Tenant:    "main",
		APIToken:  "tok_abc123",
		OutputDir: outputDir,
	}

	handler := NewKestraToTerraformHandler()
	if err := handler.Initialize(cfg, logger.New(false)); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := handler.Execute(context.Background()); err == nil {
		t.Fatal("Expected Execute to fail against unreachable instance")
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no output files after connection failure, found %d", len(entries))
	}
}

func TestManagerUsesRegisteredHandler(t *testing.T) {
	cfg := &config.Config{
		BaseURL:   "http://localhost:8080",
		Tenant:    "main",
		APIToken:  "tok_abc123",
		OutputDir: t.TempDir(),
	}

	mgr, err := NewManager(cfg, logger.New(false), "test")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if mgr.handler == nil {
		t.Fatal("Expected manager to hold a handler")
	}
	if mgr.handler.Name() != "Kestra to Terraform Import" {
		t.Errorf("Unexpected handler: %s", mgr.handler.Name())
	}
}
