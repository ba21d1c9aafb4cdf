package runstate

import "github.com/specialistvlad/slidegridgo/internal/document"

// Checkpoint is a snapshot of the documents taken right after a step's
// effects were applied. StepID is nil for the initial checkpoint.
type Checkpoint struct {
	StepID           *string             `json:"stepId,omitempty"`
	CurrentLayout    *document.Layout    `json:"currentLayout"`
	CurrentDatamodel *document.Datamodel `json:"currentDatamodel"`
}

// InitialCheckpoint records the starting documents.
func (s *State) InitialCheckpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendCheckpointLocked(nil)
}

// CheckpointStep records the documents as they are after stepID completed.
func (s *State) CheckpointStep(stepID string) {
	id := stepID
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendCheckpointLocked(&id)
}

func (s *State) appendCheckpointLocked(stepID *string) {
	s.checkpoints = append(s.checkpoints, Checkpoint{
		StepID:           stepID,
		CurrentLayout:    s.layout.Clone(),
		CurrentDatamodel: s.datamodel.Clone(),
	})
}

// Checkpoints returns the log in append order. Entries are immutable once
// written, so the returned slice shares them.
func (s *State) Checkpoints() []Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Checkpoint(nil), s.checkpoints...)
}

// CheckpointCount returns the number of checkpoints written so far.
func (s *State) CheckpointCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.checkpoints)
}
