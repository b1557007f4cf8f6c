package sonata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes doc as JSON with two-space indentation.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteConfig builds the circuit config for the given populations, resolves
// its paths against the directory of outputFile and writes it there.
func WriteConfig(outputFile, circuitDir string, nodes []NodePopulation, edges []EdgePopulation, nodeSetsFile string) error {
	baseDir, err := filepath.Abs(filepath.Dir(outputFile))
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	circuitDir, err = filepath.Abs(circuitDir)
	if err != nil {
		return fmt.Errorf("resolve circuit dir: %w", err)
	}
	doc, err := Build(nodes, edges, nodeSetsFile)
	if err != nil {
		return err
	}
	doc, err = Resolve(doc, circuitDir, baseDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", baseDir, err)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := Encode(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
