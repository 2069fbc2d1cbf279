// Package editor hosts live MapScript editing sessions over HTTP.
//
// A session holds one document as its source lines and applies structured
// attribute patches through the line-patch editors, so hand-written layout,
// comments, and unmanaged attributes survive every edit. Each mutation
// snapshots the previous state for undo/redo.
//
// # Usage
//
//	store := editor.NewStore(editor.DefaultSessionTTL)
//	srv := editor.NewServer(store, renderer, docs)
//	http.ListenAndServe(":8080", srv)
package editor

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mapscript/mapscript/pkg/errors"
	"github.com/mapscript/mapscript/pkg/mapscript"
)

// Session is one live editing session. All methods are safe for concurrent
// use.
type Session struct {
	mu         sync.RWMutex
	ID         string
	lines      []string
	undo       [][]string
	redo       [][]string
	CreatedAt  time.Time
	LastAccess time.Time
}

// NewSession creates a session seeded with the given source text.
func NewSession(source string) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		lines:      mapscript.SplitLines(source),
		CreatedAt:  now,
		LastAccess: now,
	}
}

// Source returns the current document text.
func (s *Session) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.Join(s.lines, "\n")
}

// Compile compiles the current document.
func (s *Session) Compile() mapscript.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapscript.CompileLines(s.lines)
}

// Replace swaps in a whole new document, pushing the old one onto the undo
// stack.
func (s *Session) Replace(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushUndo()
	s.lines = mapscript.SplitLines(source)
}

// PatchNode applies a node patch. An id with no definition line reports
// UNLOCATABLE_TARGET and leaves the document untouched.
func (s *Session) PatchNode(id string, p mapscript.NodePatch) error {
	if err := errors.ValidateNodeID(id); err != nil {
		return err
	}
	return s.mutate(func(lines []string) bool {
		return mapscript.PatchNode(lines, id, p)
	}, "node %q has no definition line", id)
}

// PatchEdge applies an edge patch to the 1-based source line.
func (s *Session) PatchEdge(line int, p mapscript.EdgePatch) error {
	s.mu.RLock()
	total := len(s.lines)
	s.mu.RUnlock()
	if err := errors.ValidateLineNumber(line, total); err != nil {
		return err
	}
	return s.mutate(func(lines []string) bool {
		return mapscript.PatchEdge(lines, line, p)
	}, "line %d is not an edge", line)
}

// PatchCluster applies a cluster patch by structural id ("cluster_N").
func (s *Session) PatchCluster(id string, p mapscript.ClusterPatch) error {
	if err := errors.ValidateClusterID(id); err != nil {
		return err
	}
	return s.mutate(func(lines []string) bool {
		return mapscript.PatchCluster(lines, id, p)
	}, "no cluster with id %q", id)
}

// mutate runs a patch against a copy of the lines and commits it only on
// success, so a failed patch never shows up in undo history.
func (s *Session) mutate(patch func([]string) bool, format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]string(nil), s.lines...)
	if !patch(next) {
		return errors.New(errors.ErrCodeUnlocatableTarget, format, args...)
	}
	s.pushUndo()
	s.lines = next
	return nil
}

// Undo restores the state before the most recent mutation.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return errors.New(errors.ErrCodeNothingToUndo, "nothing to undo")
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.lines)
	s.lines = prev
	return nil
}

// Redo reapplies the most recently undone mutation.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return errors.New(errors.ErrCodeNothingToRedo, "nothing to redo")
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.lines)
	s.lines = next
	return nil
}

// Touch records session activity for idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	s.LastAccess = time.Now()
	s.mu.Unlock()
}

// idleSince reports the last activity time.
func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastAccess
}

// pushUndo snapshots the current lines. Any new mutation invalidates the
// redo stack. Callers must hold the write lock.
func (s *Session) pushUndo() {
	snapshot := append([]string(nil), s.lines...)
	s.undo = append(s.undo, snapshot)
	s.redo = nil
}
