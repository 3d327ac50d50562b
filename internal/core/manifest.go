package core

import (
	"encoding/json"
	"sort"
)

type ManifestRoute struct {
	Route    string `json:"route"`
	Function string `json:"function"`
}

// Manifest describes one build's generated outputs for external tooling. It
// is rewritten on every build and never read back by the generator.
type Manifest struct {
	Title   string            `json:"title"`
	App     string            `json:"app,omitempty"`
	Routes  []ManifestRoute   `json:"routes"`
	Outputs map[string]string `json:"outputs,omitempty"`
}

func NewManifest(title string, scan ScanResult, table RouteTable) *Manifest {
	m := &Manifest{
		Title:   title,
		Routes:  make([]ManifestRoute, 0, len(table)),
		Outputs: make(map[string]string),
	}
	if scan.HasApp {
		m.App = scan.AppFQCN
	}
	for _, route := range table {
		m.Routes = append(m.Routes, ManifestRoute{Route: route.Path, Function: route.FQCN})
	}
	return m
}

func (m *Manifest) AddOutput(path string, content []byte) {
	m.Outputs[path] = HashContent(content)
}

func (m *Manifest) OutputPaths() []string {
	paths := make([]string, 0, len(m.Outputs))
	for path := range m.Outputs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
