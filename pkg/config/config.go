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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fileq/pkg/fsx"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Validate when the corresponding field is zero.
const (
	DefaultBufferSize     = 1 << 20 // 1 MiB transfer chunks
	DefaultMaxHistorySize = 100
)

// 🔌 Parser is the interface for job-file parsers
type Parser interface {
	// 📝 Parse parses a job file from bytes
	Parse(ctx context.Context, data []byte) (*JobFile, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 Settings configures how the executor performs transfers. A settings
// value is read as a snapshot when an operation starts; replacing it never
// affects an operation already running. The zero value disables timestamp
// and attribute preservation; DefaultSettings enables both.
type Settings struct {
	BufferSize         int    `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty"`
	PreserveTimestamps bool   `json:"preserve_timestamps,omitempty" yaml:"preserve_timestamps,omitempty"`
	PreserveAttributes bool   `json:"preserve_attributes,omitempty" yaml:"preserve_attributes,omitempty"`
	VerifyAfterCopy    bool   `json:"verify_after_copy,omitempty" yaml:"verify_after_copy,omitempty"`
	MaxHistorySize     int    `json:"max_history_size,omitempty" yaml:"max_history_size,omitempty"`
	TrashDir           string `json:"trash_dir,omitempty" yaml:"trash_dir,omitempty"`
}

// 🏭 DefaultSettings returns the settings used when a job file declares none.
func DefaultSettings() *Settings {
	return &Settings{
		BufferSize:         DefaultBufferSize,
		PreserveTimestamps: true,
		PreserveAttributes: true,
		VerifyAfterCopy:    false,
		MaxHistorySize:     DefaultMaxHistorySize,
	}
}

// 🔍 Validate checks bounds and fills zero numeric fields with defaults.
func (s *Settings) Validate() error {
	if s.BufferSize < 0 {
		return errors.Errorf("buffer_size must be positive, got %d", s.BufferSize)
	}
	if s.BufferSize == 0 {
		s.BufferSize = DefaultBufferSize
	}
	if s.MaxHistorySize < 0 {
		return errors.Errorf("max_history_size cannot be negative, got %d", s.MaxHistorySize)
	}
	if s.MaxHistorySize == 0 {
		s.MaxHistorySize = DefaultMaxHistorySize
	}
	return nil
}

// 🔧 Job declares one operation to enqueue.
type Job struct {
	Kind        string   `json:"kind" yaml:"kind"`                               // copy, move or delete
	Sources     []string `json:"sources" yaml:"sources"`                         // Paths to operate on
	Destination string   `json:"destination,omitempty" yaml:"destination,omitempty"` // Required for copy/move
	Permanent   bool     `json:"permanent,omitempty" yaml:"permanent,omitempty"` // Delete bypasses the trash
	Excludes    []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`   // Glob patterns to skip
}

// 📚 JobFile represents a complete job declaration
type JobFile struct {
	Settings *Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Jobs     []Job     `json:"jobs" yaml:"jobs"`
}

// 🎯 Load loads a job file from a path. The format is determined by the
// extension: .json, .yaml/.yml, .hcl. A .fileq file is tried as YAML first
// and HCL second.
func Load(ctx context.Context, path string) (*JobFile, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading job file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading job file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".fileq" || filepath.Base(path) == ".fileq" {
		jf, yamlErr := (&YAMLParser{}).Parse(ctx, data)
		if yamlErr == nil {
			return jf, nil
		}
		jf, hclErr := (&HCLParser{}).Parse(ctx, data)
		if hclErr == nil {
			return jf, nil
		}
		return nil, errors.Errorf("parsing .fileq as YAML or HCL: %w", hclErr)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	jf, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing job file: %w", err)
	}

	return jf, nil
}

// 🔍 Validate checks every job and the settings block, normalizing in place.
func (jf *JobFile) Validate() error {
	if jf.Settings != nil {
		if err := jf.Settings.Validate(); err != nil {
			return errors.Errorf("settings: %w", err)
		}
	}
	if len(jf.Jobs) == 0 {
		return errors.Errorf("at least one job is required")
	}
	for i := range jf.Jobs {
		if err := jf.Jobs[i].Validate(); err != nil {
			return errors.Errorf("job %d: %w", i, err)
		}
	}
	return nil
}

// 🔍 Validate checks required fields and normalizes paths and the kind.
func (j *Job) Validate() error {
	j.Kind = strings.ToLower(strings.TrimSpace(j.Kind))
	switch j.Kind {
	case "copy", "move", "delete":
	default:
		return errors.Errorf("kind must be copy, move or delete, got %q", j.Kind)
	}

	if len(j.Sources) == 0 {
		return errors.Errorf("sources is required")
	}
	for i, src := range j.Sources {
		if src == "" {
			return errors.Errorf("sources[%d] is empty", i)
		}
		j.Sources[i] = filepath.Clean(src)
	}

	if j.Kind == "copy" || j.Kind == "move" {
		if j.Destination == "" {
			return errors.Errorf("destination is required for %s", j.Kind)
		}
	}
	if j.Destination != "" {
		j.Destination = filepath.Clean(j.Destination)
	}

	if err := fsx.ValidatePatterns(j.Excludes); err != nil {
		return errors.Errorf("excludes: %w", err)
	}

	return nil
}

// 📝 String returns a short description of the job
func (j *Job) String() string {
	if j.Destination == "" {
		return fmt.Sprintf("%s %s", j.Kind, strings.Join(j.Sources, ", "))
	}
	return fmt.Sprintf("%s %s -> %s", j.Kind, strings.Join(j.Sources, ", "), j.Destination)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses a job file from YAML bytes
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*JobFile, error) {
	var jf JobFile
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&jf); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := jf.Validate(); err != nil {
		return nil, errors.Errorf("validating job file: %w", err)
	}

	return &jf, nil
}
