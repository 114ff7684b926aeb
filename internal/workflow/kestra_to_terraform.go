// Package workflow provides workflow handlers for specific migration paths.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/codebypatrickleung/kestraform-cli/internal/export"
	"github.com/codebypatrickleung/kestraform-cli/internal/kestra"
	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
	"github.com/codebypatrickleung/kestraform-cli/internal/template"
)

// KestraToTerraformHandler implements the workflow that exports resources
// from a Kestra instance and generates the Terraform import artifacts.
type KestraToTerraformHandler struct {
	config    *config.Config
	logger    *logger.Logger
	client    *kestra.Client
	exporter  *export.Exporter
	inventory *export.Inventory
}

func NewKestraToTerraformHandler() *KestraToTerraformHandler { return &KestraToTerraformHandler{} }
func (h *KestraToTerraformHandler) Name() string             { return "Kestra to Terraform Import" }
func (h *KestraToTerraformHandler) SourcePlatform() string   { return "kestra" }
func (h *KestraToTerraformHandler) TargetPlatform() string   { return "terraform" }

func (h *KestraToTerraformHandler) Initialize(cfg *config.Config, log *logger.Logger) error {
	h.config, h.logger = cfg, log
	h.client = kestra.NewClient(cfg.BaseURL, cfg.Tenant, kestra.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		APIToken: cfg.APIToken,
	}, cfg.InsecureSkipVerify, log)
	h.exporter = export.New(h.client, cfg, log)
	return nil
}

func (h *KestraToTerraformHandler) Execute(ctx context.Context) error {
	h.logger.Info("=========================================")
	h.logger.Infof("Executing: %s", h.Name())
	h.logger.Info("=========================================")

	steps := []struct {
		errMsg string
		fn     func(context.Context) error
	}{
		{"configuration review failed", h.reviewConfiguration},
		{"connection check failed", h.checkConnectivity},
		{"resource enumeration failed", h.buildInventory},
		{"artifact generation failed", h.generateArtifacts},
		{"declaration generation failed", h.generateDeclarations},
		{"source download failed", h.downloadSources},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.errMsg, err)
		}
	}

	h.logger.Success("=========================================")
	h.logger.Success("Kestra to Terraform export completed successfully!")
	h.logger.Success("=========================================")
	h.logger.Infof("Next: cd %s && terraform init && bash %s && terraform plan -var-file=%s",
		h.config.OutputDir, config.ImportScriptFileName, config.TFVarsFileName)
	return nil
}

func (h *KestraToTerraformHandler) reviewConfiguration(ctx context.Context) error {
	h.logger.Step(1, "Reviewing Migration Configuration")
	h.logger.Infof("Kestra Base URL: %s", h.config.BaseURL)
	h.logger.Infof("Kestra Tenant: %s", h.config.Tenant)
	if h.config.APIToken != "" {
		h.logger.Info("Authentication: API token")
	} else {
		h.logger.Infof("Authentication: basic auth (%s:%s)", h.config.Username, strings.Repeat("*", len(h.config.Password)))
	}
	h.logger.Infof("Output Directory: %s", h.config.OutputDir)
	h.logger.Infof("Manage IAM: %t", h.config.ManageIAM)
	return nil
}

func (h *KestraToTerraformHandler) checkConnectivity(ctx context.Context) error {
	h.logger.Step(2, "Checking Instance Connectivity")
	if err := h.client.Ping(ctx); err != nil {
		return err
	}
	h.logger.Successf("✓ Kestra instance at %s is reachable", h.config.BaseURL)
	return nil
}

func (h *KestraToTerraformHandler) buildInventory(ctx context.Context) error {
	h.logger.Step(3, "Enumerating Namespaces, Flows and Files")
	inv, err := h.exporter.BuildInventory(ctx)
	if err != nil {
		return err
	}
	h.inventory = inv
	h.logger.Successf("✓ Inventory complete: %d importable resource(s)", inv.ResourceCount())
	return nil
}

func (h *KestraToTerraformHandler) generateArtifacts(ctx context.Context) error {
	h.logger.Step(4, "Generating Variables File and Import Script")
	if err := h.exporter.WriteArtifacts(h.inventory); err != nil {
		return err
	}
	return nil
}

func (h *KestraToTerraformHandler) generateDeclarations(ctx context.Context) error {
	if h.config.SkipDeclarations {
		h.logger.Warning("Skipping declaration generation (SKIP_DECLARATIONS=true)")
		return nil
	}
	h.logger.Step(5, "Generating Terraform Declarations")
	return template.NewGenerator(h.config, h.logger).Generate()
}

func (h *KestraToTerraformHandler) downloadSources(ctx context.Context) error {
	if !h.config.ExportSource {
		return nil
	}
	h.logger.Step(6, "Downloading Flow Sources and Namespace Files")
	if err := h.exporter.DownloadFlowSources(ctx); err != nil {
		return err
	}
	return h.exporter.DownloadNamespaceFiles(ctx, h.inventory)
}
