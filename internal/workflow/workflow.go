// Package workflow orchestrates the export and import-generation workflow.
package workflow

import (
	"context"
	"fmt"

	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
)

// Manager orchestrates the migration workflow by delegating to registered workflow handlers.
type Manager struct {
	config  *config.Config
	logger  *logger.Logger
	handler Handler
	version string
}

// NewManager creates a new workflow manager.
func NewManager(cfg *config.Config, log *logger.Logger, version string) (*Manager, error) {
	registry := NewRegistry()

	if err := registry.Register(NewKestraToTerraformHandler()); err != nil {
		return nil, fmt.Errorf("failed to register Kestra to Terraform handler: %w", err)
	}

	handler, err := registry.Get("kestra", "terraform")
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow handler: %w", err)
	}

	if err := handler.Initialize(cfg, log); err != nil {
		return nil, fmt.Errorf("failed to initialize workflow handler: %w", err)
	}

	return &Manager{
		config:  cfg,
		logger:  log,
		handler: handler,
		version: version,
	}, nil
}

// Run executes the complete migration workflow by delegating to the registered handler.
func (m *Manager) Run(ctx context.Context) error {
	m.logger.Info("=========================================")
	m.logger.Infof("Kestraform - Kestra to Terraform Migration Tool v%s", m.version)
	m.logger.Info("=========================================")
	m.logger.Infof("Source Instance: %s (tenant=%s)", m.config.BaseURL, m.config.Tenant)
	m.logger.Infof("Output Directory: %s", m.config.OutputDir)
	m.logger.Info("=========================================")

	if err := m.handler.Execute(ctx); err != nil {
		m.logger.Error(fmt.Sprintf("Workflow failed: %v", err))
		return err
	}

	return nil
}
