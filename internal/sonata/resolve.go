package sonata

import (
	"fmt"
	"path"
	"strings"
)

// Resolve returns a copy of doc with every path rewritten relative to
// BaseDirVar, where $BASE_DIR stands for baseDir. Both directories must be
// absolute and baseDir must be circuitDir or one of its descendants.
//
// A path already starting with "$", or empty, is kept. An absolute path
// under baseDir becomes "$BASE_DIR/<rel>". One under circuitDir but outside
// baseDir climbs back to circuitDir with "../" segments. Any other path,
// relative or absolute, is appended to "$BASE_DIR/" with a leading slash
// dropped.
func Resolve(doc Document, circuitDir, baseDir string) (Document, error) {
	r, err := newResolver(circuitDir, baseDir)
	if err != nil {
		return Document{}, err
	}
	if v := doc.Manifest[BaseDirVar]; v != "." {
		return Document{}, fmt.Errorf("manifest %s must be \".\", got %q", BaseDirVar, v)
	}

	out := Document{
		Version:      doc.Version,
		Manifest:     make(map[string]string, len(doc.Manifest)),
		NodeSetsFile: r.path(doc.NodeSetsFile),
		Networks: Networks{
			Nodes: r.networks(doc.Networks.Nodes),
			Edges: r.networks(doc.Networks.Edges),
		},
	}
	for k, v := range doc.Manifest {
		out.Manifest[k] = v
	}
	return out, nil
}

type resolver struct {
	circuit, base []string
	levels        int
}

func newResolver(circuitDir, baseDir string) (resolver, error) {
	if !path.IsAbs(circuitDir) || !path.IsAbs(baseDir) {
		return resolver{}, &InvalidDirectoryHierarchyError{CircuitDir: circuitDir, BaseDir: baseDir}
	}
	circuit, base := splitPath(circuitDir), splitPath(baseDir)
	if _, ok := relativeTo(base, circuit); !ok {
		return resolver{}, &InvalidDirectoryHierarchyError{CircuitDir: circuitDir, BaseDir: baseDir}
	}
	return resolver{circuit: circuit, base: base, levels: len(base) - len(circuit)}, nil
}

func (r resolver) networks(in []Network) []Network {
	out := make([]Network, 0, len(in))
	for _, n := range in {
		pops := make([]Population, 0, len(n.Populations))
		for _, p := range n.Populations {
			pops = append(pops, r.population(p))
		}
		out = append(out, Network{FileKey: n.FileKey, File: r.path(n.File), Populations: pops})
	}
	return out
}

func (r resolver) population(p Population) Population {
	fields := make([]Field, 0, len(p.Fields))
	for _, f := range p.Fields {
		switch v := f.Value.(type) {
		case string:
			if isPathKey(f.Key) {
				f.Value = r.path(v)
			}
		case Morphologies:
			dirs := make(Morphologies, 0, len(v))
			for _, d := range v {
				dirs = append(dirs, MorphologyDir{Format: d.Format, Dir: r.path(d.Dir)})
			}
			f.Value = dirs
		}
		fields = append(fields, f)
	}
	return Population{Name: p.Name, Type: p.Type, Fields: fields}
}

func isPathKey(key string) bool {
	return strings.HasSuffix(key, "file") || strings.HasSuffix(key, "dir") || strings.HasSuffix(key, "mesh")
}

func (r resolver) path(p string) string {
	if p == "" || strings.HasPrefix(p, "$") {
		return p
	}
	parts := splitPath(p)
	if strings.HasPrefix(p, "/") {
		if rel, ok := relativeTo(parts, r.base); ok {
			return joinPath(BaseDirVar, rel)
		}
		if rel, ok := relativeTo(parts, r.circuit); ok {
			up := make([]string, r.levels, r.levels+len(rel))
			for i := range up {
				up[i] = ".."
			}
			return joinPath(BaseDirVar, append(up, rel...))
		}
	}
	return joinPath(BaseDirVar, parts)
}

// splitPath breaks a path into its components, dropping empty and "."
// components. ".." is kept, so the comparison stays lexical.
func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			parts = append(parts, s)
		}
	}
	return parts
}

// relativeTo reports whether path lies under (or at) dir and returns the
// remaining components.
func relativeTo(path, dir []string) ([]string, bool) {
	if len(path) < len(dir) {
		return nil, false
	}
	for i := range dir {
		if path[i] != dir[i] {
			return nil, false
		}
	}
	return path[len(dir):], true
}

func joinPath(head string, parts []string) string {
	if len(parts) == 0 {
		return head
	}
	return head + "/" + strings.Join(parts, "/")
}
