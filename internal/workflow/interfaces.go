// Package workflow defines interfaces for workflow abstraction.
package workflow

import (
	"context"

	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
)

// Handler defines the interface for a workflow handler that orchestrates
// a migration path. Each handler implements one source-to-target pair.
type Handler interface {
	// Name returns the name of the workflow (e.g., "Kestra to Terraform Import")
	Name() string

	// SourcePlatform returns the source platform identifier
	SourcePlatform() string

	// TargetPlatform returns the target platform identifier
	TargetPlatform() string

	// Initialize prepares the workflow handler with configuration and logger
	Initialize(cfg *config.Config, log *logger.Logger) error

	// Execute runs the complete migration workflow
	Execute(ctx context.Context) error
}
