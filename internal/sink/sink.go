// Package sink persists run artifacts. Every artifact belongs to one
// process id and is stored under a short name such as "checkpoints".
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Artifact names written when a run finalizes.
const (
	OriginalDatamodel = "original-datamodel"
	CurrentDatamodel  = "current-datamodel"
	Checkpoints       = "checkpoints"
	FinalDatamodel    = "final-datamodel"
	Changeset         = "changeset"
	Graph             = "graph"
)

// Sink stores named artifacts for a process.
type Sink interface {
	Put(ctx context.Context, processID, name string, v any) error
}

// Nop discards every artifact.
type Nop struct{}

// Put implements Sink.
func (Nop) Put(context.Context, string, string, any) error { return nil }

// FileSink writes each artifact as indented JSON to
// <Root>/<processID>/<name>.json.
type FileSink struct {
	Root string
}

// NewFileSink creates a FileSink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Root: dir}
}

// Put implements Sink.
func (s *FileSink) Put(ctx context.Context, processID, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if processID == "" || name == "" {
		return errors.New("sink: process id and artifact name are required")
	}

	dir := filepath.Join(s.Root, processID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory '%s': %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact '%s': %w", name, err)
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact '%s': %w", path, err)
	}
	return nil
}

// MemorySink keeps artifacts in memory as their JSON encoding.
type MemorySink struct {
	mu        sync.Mutex
	artifacts map[string]map[string]json.RawMessage
	order     []string
	failOn    map[string]error
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		artifacts: make(map[string]map[string]json.RawMessage),
		failOn:    make(map[string]error),
	}
}

// FailOn makes every later Put of the named artifact return err.
func (s *MemorySink) FailOn(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[name] = err
}

// Put implements Sink.
func (s *MemorySink) Put(_ context.Context, processID, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode artifact '%s': %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[name]; err != nil {
		return err
	}
	if s.artifacts[processID] == nil {
		s.artifacts[processID] = make(map[string]json.RawMessage)
	}
	s.artifacts[processID][name] = data
	s.order = append(s.order, name)
	return nil
}

// Get decodes a stored artifact into out.
func (s *MemorySink) Get(processID, name string, out any) error {
	s.mu.Lock()
	data, ok := s.artifacts[processID][name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("artifact '%s' not found for process '%s'", name, processID)
	}
	return json.Unmarshal(data, out)
}

// Names returns the names of every successful Put, in call order.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}
