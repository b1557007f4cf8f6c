package command

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Rule is one named step command, as listed in a rules file.
type Rule struct {
	Name        string   `yaml:"name"`
	Command     []string `yaml:"command"`
	Environment string   `yaml:"env,omitempty"`
	Queue       string   `yaml:"queue,omitempty"`
	SkipSrun    bool     `yaml:"skip_srun,omitempty"`
}

// Request converts r to a composer request.
func (r Rule) Request() Request {
	return Request{
		Command:     r.Command,
		Environment: r.Environment,
		Queue:       r.Queue,
		SkipSrun:    r.SkipSrun,
	}
}

// ReadRules loads a YAML list of rules from path.
func ReadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d: missing name", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("rule %q: duplicate name", r.Name)
		}
		if len(r.Command) == 0 {
			return nil, fmt.Errorf("rule %q: empty command", r.Name)
		}
		seen[r.Name] = true
	}
	return rules, nil
}

// ComposeAll composes every rule concurrently, at most limit at a time
// (no limit when limit <= 0). Results are in rule order. The first failure
// cancels the remaining work and is returned.
func ComposeAll(ctx context.Context, c *Composer, rules []Rule, limit int) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	out := make([]string, len(rules))
	for i, r := range rules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cmd, err := c.Compose(r.Request())
			if err != nil {
				return fmt.Errorf("rule %q: %w", r.Name, err)
			}
			out[i] = cmd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
