package kestra

// Namespace is a namespace record returned by the namespace search endpoint.
type Namespace struct {
	ID              string           `json:"id"`
	SecretIsolation *SecretIsolation `json:"secretIsolation,omitempty"`
}

// SecretIsolation reports whether a namespace isolates its secrets (EE feature).
type SecretIsolation struct {
	Enabled bool `json:"enabled"`
}

// Flow is a flow record returned by the per-namespace flow listing.
type Flow struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Revision  int    `json:"revision,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

// FileEntry is one entry of a namespace files directory listing.
type FileEntry struct {
	FileName string `json:"fileName"`
	Type     string `json:"type"`
	Size     int64  `json:"size,omitempty"`
}

// File entry types reported by the files/directory endpoint.
const (
	FileTypeFile      = "File"
	FileTypeDirectory = "Directory"
)

type namespacePage struct {
	Total   int         `json:"total"`
	Results []Namespace `json:"results"`
}
