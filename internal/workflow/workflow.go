// Package workflow resolves named steps from a CI pipeline definition
// into runnable shell scripts.
package workflow

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Step is one named step of a pipeline job.
type Step struct {
	Name string `yaml:"name"`
	Run  string `yaml:"run"`
}

// Job is a named collection of ordered steps.
type Job struct {
	Steps []Step `yaml:"steps"`
}

// Pipeline is a parsed CI pipeline definition.
type Pipeline struct {
	Jobs map[string]Job `yaml:"jobs"`
}

// StepNotFoundError reports that a requested step name is not present in
// the pipeline job. This aborts the run: the inputs are unusable, not a
// check failure.
type StepNotFoundError struct {
	Job  string
	Step string
}

// Error implements the error interface for StepNotFoundError.
func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("step %q not found in job %q", e.Step, e.Job)
}

// Load parses a pipeline definition file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	return Parse(data)
}

// Parse parses pipeline YAML.
func Parse(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file: %w", err)
	}
	if p.Jobs == nil {
		return nil, fmt.Errorf("top level key \"jobs\" not found in workflow file")
	}
	return &p, nil
}

// GrabSteps returns the named steps of a job in the requested order.
// Names match case-insensitively on trimmed text. A missing job or step
// name fails loudly.
func (p *Pipeline) GrabSteps(job string, names []string) ([]Step, error) {
	j, ok := p.Jobs[job]
	if !ok {
		return nil, fmt.Errorf("job %q not found in workflow file", job)
	}

	steps := make([]Step, 0, len(names))
	for _, name := range names {
		found := false
		for _, step := range j.Steps {
			if stepNameEqual(step.Name, name) {
				steps = append(steps, step)
				found = true
				break
			}
		}
		if !found {
			return nil, &StepNotFoundError{Job: job, Step: name}
		}
	}
	return steps, nil
}

func stepNameEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
