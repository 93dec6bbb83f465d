package comfy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Errors returned while loading or editing a workflow.
var (
	ErrWorkflowNotFound = errors.New("workflow file not found")
	ErrNodeNotFound     = errors.New("workflow node not found")
	ErrInputsMissing    = errors.New("workflow node has no inputs")
)

// Workflow is an API-format workflow: node id to node definition. Values
// are kept as decoded JSON so everything but the edited input is
// re-submitted as read. Numbers stay json.Number so seeds keep every digit.
type Workflow map[string]interface{}

// LoadWorkflow reads and parses an API-format workflow file.
func LoadWorkflow(path string) (Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, path)
		}
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	return ParseWorkflow(bytes.NewReader(data))
}

// ParseWorkflow decodes a workflow document.
func ParseWorkflow(r io.Reader) (Workflow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var wf Workflow
	if err := dec.Decode(&wf); err != nil {
		return nil, fmt.Errorf("parse workflow JSON: %w", err)
	}
	if wf == nil {
		return nil, errors.New("parse workflow JSON: document is null")
	}
	return wf, nil
}

// Input returns the current value of a node input.
func (w Workflow) Input(nodeID, input string) (interface{}, error) {
	inputs, err := w.inputs(nodeID)
	if err != nil {
		return nil, err
	}
	return inputs[input], nil
}

// SetInput overwrites (or creates) one input of one node.
func (w Workflow) SetInput(nodeID, input string, value interface{}) error {
	inputs, err := w.inputs(nodeID)
	if err != nil {
		return err
	}
	inputs[input] = value
	return nil
}

func (w Workflow) inputs(nodeID string) (map[string]interface{}, error) {
	raw, ok := w[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, nodeID)
	}
	node, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: node %q is not an object", ErrNodeNotFound, nodeID)
	}
	inputs, ok := node["inputs"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInputsMissing, nodeID)
	}
	return inputs, nil
}
