package cli

import (
	"fmt"
	"io"
	"os"

	"qemcp/internal/api"

	"gopkg.in/yaml.v3"
)

// testCaseFile is the document form of a test case file. A bare list of
// test cases is accepted as well.
type testCaseFile struct {
	TestCases []api.TestCase `yaml:"testCases"`
}

// LoadTestCases reads generated test cases from a YAML or JSON file, or from
// stdin when path is "-". Steps without a step number are numbered by
// position.
func LoadTestCases(path string, stdin io.Reader) ([]api.TestCase, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read test cases: %w", err)
	}

	cases, err := parseTestCases(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse test cases from %s: %w", path, err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no test cases in %s", path)
	}

	for i := range cases {
		for j := range cases[i].Steps {
			if cases[i].Steps[j].StepNumber == 0 {
				cases[i].Steps[j].StepNumber = j + 1
			}
		}
	}
	return cases, nil
}

// LoadSteps reads a list of test steps from a YAML or JSON file, or from
// stdin when path is "-". Steps are renumbered by position.
func LoadSteps(path string, stdin io.Reader) ([]api.TestStep, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps: %w", err)
	}

	var steps []api.TestStep
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse steps from %s: %w", path, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps in %s", path)
	}
	for i := range steps {
		steps[i].StepNumber = i + 1
	}
	return steps, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// parseTestCases relies on YAML being a superset of JSON.
func parseTestCases(data []byte) ([]api.TestCase, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var cases []api.TestCase
		if err := root.Decode(&cases); err != nil {
			return nil, err
		}
		return cases, nil
	case yaml.MappingNode:
		var file testCaseFile
		if err := root.Decode(&file); err != nil {
			return nil, err
		}
		return file.TestCases, nil
	default:
		return nil, fmt.Errorf("expected a list of test cases or a document with testCases")
	}
}
