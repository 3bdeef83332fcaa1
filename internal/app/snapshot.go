package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/calvinalkan/handled/internal/agenda"
	"github.com/calvinalkan/handled/internal/capture"
	"github.com/calvinalkan/handled/internal/nudge"
	"github.com/calvinalkan/handled/internal/task"

	"github.com/natefinch/atomic"
)

const (
	exportDirPerms  = 0o750
	exportFilePerms = 0o600
)

// Snapshot is a point-in-time view of the whole session.
type Snapshot struct {
	Now          time.Time         `json:"now"`
	User         *task.User        `json:"user,omitempty"`
	CaptureCount int               `json:"capture_count"`
	Recorder     capture.State     `json:"recorder"`
	Bridge       bool              `json:"bridge"`
	Nudge        *nudge.Content    `json:"nudge,omitempty"`
	NudgeType    nudge.Type        `json:"nudge_type,omitempty"`
	History      nudge.History     `json:"nudge_history,omitempty"`
	Agenda       agenda.Buckets    `json:"agenda"`
	EmptyState   agenda.EmptyState `json:"empty_state"`
}

// Snapshot collects the current session state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	buckets, err := s.Agenda(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Now:          s.Now(),
		CaptureCount: s.CaptureCount(),
		Recorder:     s.recorder.State(),
		Bridge:       s.Bridge(),
		History:      s.History(),
		Agenda:       buckets,
		EmptyState:   buckets.State(),
	}

	if u, ok := s.User(); ok {
		snap.User = &u
	}

	if t, ok := s.CurrentNudge(); ok {
		content := nudge.ContentFor(t, snap.CaptureCount)
		snap.Nudge = &content
		snap.NudgeType = t
	}

	return snap, nil
}

// Export writes the snapshot as indented JSON to path, replacing any existing
// file atomically. The file is never read back.
func (s *Session) Export(ctx context.Context, path string) (Snapshot, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	data, marshalErr := json.MarshalIndent(snap, "", "  ")
	if marshalErr != nil {
		return Snapshot{}, fmt.Errorf("failed to encode snapshot: %w", marshalErr)
	}

	data = append(data, '\n')

	mkdirErr := os.MkdirAll(filepath.Dir(path), exportDirPerms)
	if mkdirErr != nil {
		return Snapshot{}, fmt.Errorf("failed to create export directory: %w", mkdirErr)
	}

	writeErr := atomic.WriteFile(path, bytes.NewReader(data))
	if writeErr != nil {
		return Snapshot{}, fmt.Errorf("failed to write export file: %w", writeErr)
	}

	// atomic.WriteFile doesn't set permissions for new files
	chmodErr := os.Chmod(path, exportFilePerms)
	if chmodErr != nil {
		return Snapshot{}, fmt.Errorf("failed to set export file permissions: %w", chmodErr)
	}

	return snap, nil
}
