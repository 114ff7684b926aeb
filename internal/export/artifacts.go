package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codebypatrickleung/kestraform-cli/internal/common"
	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// RenderTFVars renders the Terraform variables file for the inventory.
// Attribute order is fixed and list/map contents are deterministic, so the
// same inventory always renders to byte-identical output.
func RenderTFVars(cfg *config.Config, inv *Inventory) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("kestra_base_url", cty.StringVal(cfg.BaseURL))
	body.SetAttributeValue("kestra_username", cty.StringVal(cfg.Username))
	body.SetAttributeValue("kestra_password", cty.StringVal(cfg.Password))
	body.SetAttributeValue("kestra_api_token", cty.StringVal(cfg.APIToken))
	body.SetAttributeValue("kestra_tenant", cty.StringVal(cfg.Tenant))
	body.SetAttributeValue("manage_iam", cty.BoolVal(cfg.ManageIAM))
	body.AppendNewline()

	body.SetAttributeValue("namespaces", stringListVal(inv.Namespaces))
	body.AppendNewline()

	body.SetAttributeValue("flows_by_namespace", stringListMapVal(inv.FlowsByNamespace))
	body.AppendNewline()

	body.SetAttributeValue("files_by_namespace", stringListMapVal(inv.FilesByNamespace))

	return f.Bytes()
}

func stringListVal(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, 0, len(items))
	for _, item := range items {
		vals = append(vals, cty.StringVal(item))
	}
	return cty.ListVal(vals)
}

func stringListMapVal(m map[string][]string) cty.Value {
	if len(m) == 0 {
		return cty.MapValEmpty(cty.List(cty.String))
	}
	vals := make(map[string]cty.Value, len(m))
	for key, items := range m {
		vals[key] = stringListVal(items)
	}
	return cty.MapVal(vals)
}

// RenderImportScript renders the shell script of terraform import commands,
// one line per resource instance.
func RenderImportScript(inv *Inventory) []byte {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")

	writeSection := func(lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	var nsLines, flowLines, fileLines []string
	for _, ns := range inv.Namespaces {
		nsLines = append(nsLines, importLine(fmt.Sprintf(`kestra_namespace.namespaces["%s"]`, ns), ns))
		for _, flow := range inv.FlowsByNamespace[ns] {
			flowLines = append(flowLines, importLine(fmt.Sprintf(`kestra_flow.flows["%s|%s"]`, ns, flow), ns+"/"+flow))
		}
		for _, path := range inv.FilesByNamespace[ns] {
			fileLines = append(fileLines, importLine(fmt.Sprintf(`kestra_namespace_file.files["%s|%s"]`, ns, path), ns+"/"+path))
		}
	}
	writeSection(nsLines)
	writeSection(flowLines)
	writeSection(fileLines)

	return []byte(b.String())
}

func importLine(address, id string) string {
	return fmt.Sprintf("terraform import -var-file=%s %s %s", config.TFVarsFileName, common.ShellSingleQuote(address), id)
}

// WriteArtifacts renders both artifacts and commits them to the output
// directory. Both files are staged as temporary files first and only
// renamed into place once every write succeeded, so the output directory
// never holds one fresh and one stale artifact.
func (e *Exporter) WriteArtifacts(inv *Inventory) error {
	artifacts := []artifact{
		{name: config.TFVarsFileName, content: RenderTFVars(e.config, inv), mode: 0644},
		{name: config.ImportScriptFileName, content: RenderImportScript(inv), mode: 0755},
	}

	if err := common.EnsureDir(e.config.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := commitArtifacts(e.config.OutputDir, artifacts); err != nil {
		return err
	}

	for _, a := range artifacts {
		e.logger.Successf("Wrote %s", filepath.Join(e.config.OutputDir, a.name))
	}
	return nil
}

type artifact struct {
	name    string
	content []byte
	mode    os.FileMode
}

func commitArtifacts(dir string, artifacts []artifact) error {
	staged := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, path := range staged {
			os.Remove(path)
		}
	}

	for _, a := range artifacts {
		tmpFile, err := os.CreateTemp(dir, ".kestraform-tmp-*")
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", a.name, err)
		}
		staged = append(staged, tmpFile.Name())
		if _, err := tmpFile.Write(a.content); err != nil {
			tmpFile.Close()
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", a.name, err)
		}
		if err := tmpFile.Close(); err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", a.name, err)
		}
		if err := os.Chmod(tmpFile.Name(), a.mode); err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", a.name, err)
		}
	}

	for i, a := range artifacts {
		if err := os.Rename(staged[i], filepath.Join(dir, a.name)); err != nil {
			cleanup()
			return fmt.Errorf("failed to commit %s: %w", a.name, err)
		}
	}
	return nil
}
