package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// readDescriptor loads a descriptor from a file ("-" for stdin). The file
// holds either a bare JSON array or an object with a "descriptor" field,
// the body the browser client posts.
func readDescriptor(path string) ([]float32, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	return parseDescriptor(data)
}

func parseDescriptor(data []byte) ([]float32, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("descriptor file is empty")
	}

	if data[0] == '[' {
		var descriptor []float32
		if err := json.Unmarshal(data, &descriptor); err != nil {
			return nil, fmt.Errorf("parsing descriptor: %w", err)
		}
		return descriptor, nil
	}

	var wrapped struct {
		Descriptor []float32 `json:"descriptor"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	if wrapped.Descriptor == nil {
		return nil, errors.New(`descriptor object has no "descriptor" field`)
	}
	return wrapped.Descriptor, nil
}
