// Package export builds the resource inventory of a Kestra instance and
// renders the Terraform import artifacts.
package export

// Inventory is the full snapshot of exportable resources discovered on the
// source instance. It is built completely in memory before any artifact is
// written, so a late failure never leaves one artifact stale relative to
// the other.
type Inventory struct {
	// Namespaces in the order the source API returned them.
	Namespaces []string
	// FlowsByNamespace maps a namespace to its flow identifiers, API order.
	FlowsByNamespace map[string][]string
	// FilesByNamespace maps a namespace to its stored file paths, API order.
	FilesByNamespace map[string][]string
}

// NewInventory returns an empty inventory with initialized maps.
func NewInventory() *Inventory {
	return &Inventory{
		FlowsByNamespace: make(map[string][]string),
		FilesByNamespace: make(map[string][]string),
	}
}

// ResourceCount returns the total number of importable resources.
func (inv *Inventory) ResourceCount() int {
	count := len(inv.Namespaces)
	for _, flows := range inv.FlowsByNamespace {
		count += len(flows)
	}
	for _, files := range inv.FilesByNamespace {
		count += len(files)
	}
	return count
}
