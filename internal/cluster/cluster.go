// Package cluster loads the per-queue Slurm allocation settings (cluster.yaml).
package cluster

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/me/circuitbuild/internal/envconfig"
	"github.com/me/circuitbuild/internal/schema"
	"gopkg.in/yaml.v3"
)

// DefaultQueue is the fallback entry used for queues without their own settings.
const DefaultQueue = "__default__"

// ErrMissingSchedulingConfig is returned when neither the requested queue nor
// DefaultQueue is configured.
var ErrMissingSchedulingConfig = errors.New("missing scheduling configuration")

// MissingQueueError reports a queue lookup that fell through to a missing
// DefaultQueue entry.
type MissingQueueError struct {
	Queue     string
	Available []string
}

func (e *MissingQueueError) Error() string {
	return fmt.Sprintf("no Slurm configuration for %q and no %s entry (available: %s)",
		e.Queue, DefaultQueue, strings.Join(e.Available, ", "))
}

func (e *MissingQueueError) Unwrap() error { return ErrMissingSchedulingConfig }

// Slurm holds the allocation settings for one queue.
type Slurm struct {
	Salloc  string            `yaml:"salloc"`            // Arguments passed verbatim to salloc
	JobName string            `yaml:"jobname,omitempty"` // Defaults to the queue name
	SmRun   string            `yaml:"sm_run,omitempty"`  // Replaces the {sm_run} token of step commands
	EnvVars envconfig.EnvVars `yaml:"env_vars,omitempty"`
}

// Config maps queue names to their Slurm settings. A nil or empty Config
// disables Slurm submission.
type Config map[string]Slurm

// Resolve returns the settings for queue, falling back to DefaultQueue.
// The returned JobName is never empty.
func (c Config) Resolve(queue string) (Slurm, error) {
	s, ok := c[queue]
	if !ok {
		s, ok = c[DefaultQueue]
		if !ok {
			return Slurm{}, &MissingQueueError{Queue: queue, Available: c.Queues()}
		}
	}
	if s.JobName == "" {
		s.JobName = queue
	}
	return s, nil
}

// Queues returns the configured queue names in sorted order.
func (c Config) Queues() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse validates data against the cluster schema and decodes it.
func Parse(data []byte) (Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse cluster config: %w", err)
	}
	if raw == nil {
		return Config{}, nil
	}
	if err := schema.Validate(schema.Cluster, raw); err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode cluster config: %w", err)
	}
	return c, nil
}

// Read loads a cluster configuration from path. An empty path yields an
// empty Config.
func Read(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cluster config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
