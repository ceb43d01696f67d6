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
	"github.com/go-playground/validator/v10"
)

// MaxContentBytes is the absolute cap on one file's content, independent of
// the configurable ServiceConfig limit. Configuration files are small; a
// payload near this size is not a configuration file.
const MaxContentBytes = 2 * 1024 * 1024

// topologyValidate is the validator instance for request types.
// Initialized in init() with custom validators.
var topologyValidate *validator.Validate

func init() {
	topologyValidate = validator.New()
	_ = topologyValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes checks that a string field does not exceed MaxContentBytes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxContentBytes
}

// Validate validates the request beyond gin's binding tags.
func (r *AnalyzeRequest) Validate() error {
	return topologyValidate.Struct(r)
}

// Validate validates the request beyond gin's binding tags.
func (r *DiagramRequest) Validate() error {
	return topologyValidate.Struct(r)
}
