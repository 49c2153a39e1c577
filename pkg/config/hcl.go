// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses a job file from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*JobFile, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "jobs.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclJobFile struct {
		Settings *struct {
			BufferSize         int    `hcl:"buffer_size,optional"`
			PreserveTimestamps bool   `hcl:"preserve_timestamps,optional"`
			PreserveAttributes bool   `hcl:"preserve_attributes,optional"`
			VerifyAfterCopy    bool   `hcl:"verify_after_copy,optional"`
			MaxHistorySize     int    `hcl:"max_history_size,optional"`
			TrashDir           string `hcl:"trash_dir,optional"`
		} `hcl:"settings,block"`
		Jobs []struct {
			Kind        string   `hcl:"kind"`
			Sources     []string `hcl:"sources"`
			Destination string   `hcl:"destination,optional"`
			Permanent   bool     `hcl:"permanent,optional"`
			Excludes    []string `hcl:"excludes,optional"`
		} `hcl:"job,block"`
	}

	// Decode HCL
	var hclJf hclJobFile
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclJf)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	jf := &JobFile{}
	if hclJf.Settings != nil {
		jf.Settings = &Settings{
			BufferSize:         hclJf.Settings.BufferSize,
			PreserveTimestamps: hclJf.Settings.PreserveTimestamps,
			PreserveAttributes: hclJf.Settings.PreserveAttributes,
			VerifyAfterCopy:    hclJf.Settings.VerifyAfterCopy,
			MaxHistorySize:     hclJf.Settings.MaxHistorySize,
			TrashDir:           hclJf.Settings.TrashDir,
		}
	}
	for _, job := range hclJf.Jobs {
		jf.Jobs = append(jf.Jobs, Job{
			Kind:        job.Kind,
			Sources:     job.Sources,
			Destination: job.Destination,
			Permanent:   job.Permanent,
			Excludes:    job.Excludes,
		})
	}

	if err := jf.Validate(); err != nil {
		return nil, errors.Errorf("validating job file: %w", err)
	}

	return jf, nil
}
