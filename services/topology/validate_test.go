// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package topology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeRequest_Validate(t *testing.T) {
	valid := AnalyzeRequest{
		Files: []FileInput{{Name: "compose.yml", Content: "services: {}\n"}},
	}
	assert.NoError(t, valid.Validate())

	empty := AnalyzeRequest{}
	assert.Error(t, empty.Validate(), "missing files should fail")

	noName := AnalyzeRequest{
		Files: []FileInput{{Content: "services: {}\n"}},
	}
	assert.Error(t, noName.Validate(), "a file without a name should fail")
}

func TestAnalyzeRequest_Validate_ContentCap(t *testing.T) {
	oversized := AnalyzeRequest{
		Files: []FileInput{{
			Name:    "huge.yml",
			Content: strings.Repeat("x", MaxContentBytes+1),
		}},
	}
	assert.Error(t, oversized.Validate(), "content above MaxContentBytes should fail")

	atLimit := AnalyzeRequest{
		Files: []FileInput{{
			Name:    "big.yml",
			Content: strings.Repeat("x", MaxContentBytes),
		}},
	}
	assert.NoError(t, atLimit.Validate(), "content at the limit should pass")
}

func TestDiagramRequest_Validate(t *testing.T) {
	valid := DiagramRequest{
		Files: []FileInput{{Name: "compose.yml", Content: "services: {}\n"}},
		View:  "service",
	}
	assert.NoError(t, valid.Validate())

	empty := DiagramRequest{View: "service"}
	assert.Error(t, empty.Validate())
}
