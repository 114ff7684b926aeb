// Package template generates the static Terraform declaration files that
// consume the exported variables and recognize the import addresses.
package template

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codebypatrickleung/kestraform-cli/internal/common"
	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
)

// Generator writes the Terraform declaration files for the Kestra provider.
type Generator struct {
	config *config.Config
	logger *logger.Logger
}

// NewGenerator creates a new declarations generator.
func NewGenerator(cfg *config.Config, log *logger.Logger) *Generator {
	return &Generator{
		config: cfg,
		logger: log,
	}
}

// Generate writes all declaration files into the output directory.
func (g *Generator) Generate() error {
	if err := common.EnsureDir(g.config.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	g.logger.Infof("Generating Terraform declarations in: %s", g.config.OutputDir)

	generators := []func() error{
		g.generateProviderTF,
		g.generateVariablesTF,
		g.generateMainTF,
		g.generateReadme,
	}
	for _, gen := range generators {
		if err := gen(); err != nil {
			return err
		}
	}
	g.logger.Successf("Declarations generated in %s", g.config.OutputDir)
	return nil
}

func (g *Generator) generateProviderTF() error {
	content := `# --------------------------------------------------------------------------------------------
# Kestra Provider Configuration
# --------------------------------------------------------------------------------------------
# This file configures the Kestra provider for Terraform.
# Connection settings are supplied through the generated kestra.tfvars file.
# --------------------------------------------------------------------------------------------

terraform {
  required_version = ">= 1.0.0"
  required_providers {
    kestra = {
      source  = "kestra-io/kestra"
      version = ">= 0.15.0"
    }
  }
}

provider "kestra" {
  url       = var.kestra_base_url
  username  = var.kestra_username
  password  = var.kestra_password
  api_token = var.kestra_api_token
  tenant_id = var.kestra_tenant
}
`
	return os.WriteFile(filepath.Join(g.config.OutputDir, "provider.tf"), []byte(content), 0644)
}

func (g *Generator) generateVariablesTF() error {
	content := `# --------------------------------------------------------------------------------------------
# Variable Definitions for Kestra Resource Adoption
# --------------------------------------------------------------------------------------------

variable "kestra_base_url" {
  description = "Base URL of the target Kestra instance"
  type        = string
}

variable "kestra_username" {
  description = "Basic auth username (leave empty when using an API token)"
  type        = string
  default     = ""
}

variable "kestra_password" {
  description = "Basic auth password (leave empty when using an API token)"
  type        = string
  default     = ""
  sensitive   = true
}

variable "kestra_api_token" {
  description = "API token (leave empty when using basic auth)"
  type        = string
  default     = ""
  sensitive   = true
}

variable "kestra_tenant" {
  description = "Tenant id of the target instance"
  type        = string
  default     = "main"
}

variable "manage_iam" {
  description = "Whether user, group and role management is in scope for this configuration"
  type        = bool
  default     = false
}

variable "namespaces" {
  description = "Namespace names exported from the source instance"
  type        = list(string)
  default     = []
}

variable "flows_by_namespace" {
  description = "Flow identifiers per namespace"
  type        = map(list(string))
  default     = {}
}

variable "files_by_namespace" {
  description = "Namespace file paths per namespace"
  type        = map(list(string))
  default     = {}
}
`
	return os.WriteFile(filepath.Join(g.config.OutputDir, "variables.tf"), []byte(content), 0644)
}

func (g *Generator) generateMainTF() error {
	content := `# --------------------------------------------------------------------------------------------
# Kestra Resource Declarations
# --------------------------------------------------------------------------------------------
# One addressable resource instance per exported namespace, flow, and file.
# The import script generated alongside this configuration binds each
# instance to its existing counterpart on the target instance.
# --------------------------------------------------------------------------------------------

locals {
  flows = flatten([
    for ns, ids in var.flows_by_namespace : [
      for id in ids : { namespace = ns, flow_id = id }
    ]
  ])
  files = flatten([
    for ns, paths in var.files_by_namespace : [
      for path in paths : { namespace = ns, path = path }
    ]
  ])
}

resource "kestra_namespace" "namespaces" {
  for_each     = toset(var.namespaces)
  namespace_id = each.value
}

resource "kestra_flow" "flows" {
  for_each  = { for f in local.flows : "${f.namespace}|${f.flow_id}" => f }
  namespace = each.value.namespace
  flow_id   = each.value.flow_id
  content   = file("${path.module}/flows/${each.value.namespace}/${each.value.flow_id}.yml")
}

resource "kestra_namespace_file" "files" {
  for_each  = { for f in local.files : "${f.namespace}|${f.path}" => f }
  namespace = each.value.namespace
  filename  = "/${each.value.path}"
  content   = file("${path.module}/namespace_files/${each.value.namespace}/${each.value.path}")
}
`
	return os.WriteFile(filepath.Join(g.config.OutputDir, "main.tf"), []byte(content), 0644)
}

func (g *Generator) generateReadme() error {
	content := `# Terraform Configuration for Kestra Resource Adoption

This directory contains the Terraform configuration generated by Kestraform.
Use these files together with the generated ` + "`kestra.tfvars`" + ` and
` + "`import.sh`" + ` to adopt the exported resources into managed state.

## Files

- ` + "`provider.tf`" + ` - Kestra provider configuration
- ` + "`variables.tf`" + ` - Variable definitions
- ` + "`main.tf`" + ` - Resource declarations (namespaces, flows, namespace files)
- ` + "`kestra.tfvars`" + ` - Exported variable values
- ` + "`import.sh`" + ` - One terraform import command per exported resource
- ` + "`README.md`" + ` - This file

## Usage

### 1. Provide Flow Sources

The flow declarations read their YAML sources from ` + "`flows/<namespace>/<flow>.yml`" + `.
Run the exporter with ` + "`--export-source`" + ` to download ` + "`flows.zip`" + ` and the
namespace file contents, then unpack the archive into ` + "`flows/`" + `.

### 2. Review Variable Values

Check ` + "`kestra.tfvars`" + ` and point the connection variables at the target
instance before importing.

### 3. Initialize Terraform

` + "```" + `bash
terraform init
` + "```" + `

### 4. Import Existing Resources

` + "```" + `bash
bash import.sh
` + "```" + `

### 5. Verify the Plan

` + "```" + `bash
terraform plan -var-file=kestra.tfvars
` + "```" + `

A clean plan means every exported resource is now under managed state.

## Notes

- ` + "`manage_iam`" + ` is an input toggle consumed by configurations that also
  manage users, groups and roles; this generated configuration leaves those
  resource types untouched.
`
	return os.WriteFile(filepath.Join(g.config.OutputDir, "README.md"), []byte(content), 0644)
}
