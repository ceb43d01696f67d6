// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package loader turns file paths and raw YAML payloads into decoded
// documents for the analysis pipeline. It knows nothing about what the
// documents mean.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPlatform marks a document that is neither a cluster manifest nor
// a compose file. Callers branch on it with errors.Is.
var ErrUnknownPlatform = errors.New("unrecognized document")

// File is a named YAML payload, possibly a multi-document stream.
type File struct {
	Name    string
	Content []byte
}

// FromPaths reads every path concurrently and returns the files in the
// order the paths were given. The file name is the path as provided, so
// downstream error messages point at what the caller typed.
func FromPaths(paths []string) ([]File, error) {
	files := make([]File, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			files[i] = File{Name: path, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Documents splits a YAML stream into its documents. Empty documents, such
// as the gap between two --- separators, are dropped. A syntax error anywhere
// in the stream fails the whole file; yaml offers no way to resume decoding
// past a broken document.
func Documents(content []byte) ([]map[string]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	var docs []map[string]any
	for {
		var body map[string]any
		err := dec.Decode(&body)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			continue
		}
		docs = append(docs, body)
	}
	return docs, nil
}
