package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/codebypatrickleung/kestraform-cli/internal/common"
	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/codebypatrickleung/kestraform-cli/internal/kestra"
	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
)

// Exporter enumerates resources from a Kestra instance and writes the
// generated artifacts.
type Exporter struct {
	client *kestra.Client
	config *config.Config
	logger *logger.Logger
}

// New creates a new Exporter.
func New(client *kestra.Client, cfg *config.Config, log *logger.Logger) *Exporter {
	return &Exporter{
		client: client,
		config: cfg,
		logger: log,
	}
}

// BuildInventory enumerates namespaces, flows, and files in a fixed order
// and returns the complete in-memory inventory. Flows and files are only
// enumerated for discovered namespaces, so every flow and file entry always
// references a declared namespace.
func (e *Exporter) BuildInventory(ctx context.Context) (*Inventory, error) {
	namespaces, err := e.client.SearchNamespaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("namespace enumeration failed: %w", err)
	}
	e.logger.Infof("Discovered %d namespace(s)", len(namespaces))

	inv := NewInventory()
	for _, ns := range namespaces {
		if ns.SecretIsolation != nil && ns.SecretIsolation.Enabled {
			e.logger.Warningf("Namespace '%s' has secret isolation enabled; ensure to handle secrets appropriately during migration.", ns.ID)
		}
		inv.Namespaces = append(inv.Namespaces, ns.ID)
	}

	for _, ns := range inv.Namespaces {
		flows, err := e.client.ListFlows(ctx, ns)
		if err != nil {
			return nil, fmt.Errorf("flow enumeration failed: %w", err)
		}
		ids := make([]string, 0, len(flows))
		for _, flow := range flows {
			ids = append(ids, flow.ID)
		}
		inv.FlowsByNamespace[ns] = ids
		e.logger.Debugf("Namespace '%s': %d flow(s)", ns, len(ids))
	}

	if e.config.SkipFiles {
		e.logger.Warning("Skipping namespace file enumeration (SKIP_FILES=true)")
		for _, ns := range inv.Namespaces {
			inv.FilesByNamespace[ns] = []string{}
		}
		return inv, nil
	}

	for _, ns := range inv.Namespaces {
		files, err := e.client.ListNamespaceFiles(ctx, ns)
		if err != nil {
			return nil, fmt.Errorf("file enumeration failed: %w", err)
		}
		if files == nil {
			files = []string{}
		}
		inv.FilesByNamespace[ns] = files
		e.logger.Debugf("Namespace '%s': %d file(s)", ns, len(files))
	}

	return inv, nil
}

// DownloadFlowSources fetches the ZIP of all flow sources and writes it to
// the output directory.
func (e *Exporter) DownloadFlowSources(ctx context.Context) error {
	data, err := e.client.ExportFlowsZip(ctx)
	if err != nil {
		return err
	}
	target := filepath.Join(e.config.OutputDir, config.FlowSourceArchiveName)
	if err := common.WriteFileAtomic(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write flow source archive: %w", err)
	}
	e.logger.Successf("Flow sources saved to %s", target)
	return nil
}

// DownloadNamespaceFiles fetches the content of every file in the inventory
// and mirrors it under <output-dir>/namespace_files/<namespace>/<path>.
func (e *Exporter) DownloadNamespaceFiles(ctx context.Context, inv *Inventory) error {
	for _, ns := range inv.Namespaces {
		paths := inv.FilesByNamespace[ns]
		if len(paths) == 0 {
			continue
		}
		e.logger.Infof("Downloading %d file(s) for namespace '%s'", len(paths), ns)
		for _, path := range paths {
			content, err := e.client.GetNamespaceFile(ctx, ns, path)
			if err != nil {
				return err
			}
			target := filepath.Join(e.config.OutputDir, config.NamespaceFilesDirName, ns, filepath.FromSlash(path))
			if err := common.EnsureDir(filepath.Dir(target)); err != nil {
				return fmt.Errorf("failed to create directory for '%s': %w", target, err)
			}
			if err := common.WriteFileAtomic(target, content, 0644); err != nil {
				return err
			}
		}
	}
	return nil
}
