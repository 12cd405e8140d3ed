// Package viewer loads the rendered artifact of a completed task and exposes
// an inline preview plus an independent save-to-file path. A preview failure
// never blocks the download path.
package viewer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"account-research-report/internal/client"
	"account-research-report/internal/models"
)

// RenderError reports that the artifact was fetched but could not be
// prepared for display. The artifact bytes are intact; direct download
// remains available.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render artifact: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ArtifactClient is the slice of the task client the viewer needs
type ArtifactClient interface {
	GetTaskStatus(ctx context.Context, taskID string) (*models.Task, error)
	DownloadArtifact(ctx context.Context, taskID string) ([]byte, error)
}

// Viewer holds the artifact of one completed task
type Viewer struct {
	client ArtifactClient
	taskID string

	mu          sync.Mutex
	data        []byte
	loaded      bool
	previewPath string
}

// New creates a viewer for the given task
func New(c ArtifactClient, taskID string) *Viewer {
	return &Viewer{client: c, taskID: taskID}
}

// Load fetches the artifact once. It refuses to fetch while the task is not
// completed (client.ErrNotReady), and repeated calls after a successful load
// are no-ops, so a remount cannot fetch twice.
func (v *Viewer) Load(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loaded {
		return nil
	}

	task, err := v.client.GetTaskStatus(ctx, v.taskID)
	if err != nil {
		return fmt.Errorf("check task status: %w", err)
	}
	if task.Status != models.TaskStatusCompleted {
		return fmt.Errorf("task %s is %s: %w", v.taskID, task.Status, client.ErrNotReady)
	}

	data, err := v.client.DownloadArtifact(ctx, v.taskID)
	if err != nil {
		return fmt.Errorf("fetch artifact: %w", err)
	}

	v.data = data
	v.loaded = true
	return nil
}

// Refetch discards any loaded artifact and fetches it again. This is the
// manual retry action; unlike Load it always goes back to the server.
func (v *Viewer) Refetch(ctx context.Context) error {
	v.mu.Lock()
	v.loaded = false
	v.data = nil
	v.dropPreviewLocked()
	v.mu.Unlock()

	return v.Load(ctx)
}

// Loaded reports whether the artifact bytes are available
func (v *Viewer) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Preview materializes the artifact as a transient file and returns its path
// for an external display handle. The file is owned by the viewer and removed
// on Close. Failure to materialize is a RenderError and leaves the download
// path untouched.
func (v *Viewer) Preview() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return "", &RenderError{Err: fmt.Errorf("artifact not loaded")}
	}
	if v.previewPath != "" {
		return v.previewPath, nil
	}

	f, err := os.CreateTemp("", "account-research-preview-*.pdf")
	if err != nil {
		return "", &RenderError{Err: err}
	}
	if _, err := f.Write(v.data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", &RenderError{Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", &RenderError{Err: err}
	}

	v.previewPath = f.Name()
	return v.previewPath, nil
}

// SaveTo writes the artifact into dir under its canonical download name and
// returns the full path. Independent of the preview path.
func (v *Viewer) SaveTo(dir string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loaded {
		return "", fmt.Errorf("artifact not loaded")
	}

	path := filepath.Join(dir, models.ArtifactFileName(v.taskID))
	if err := os.WriteFile(path, v.data, 0o644); err != nil {
		return "", fmt.Errorf("save artifact: %w", err)
	}
	return path, nil
}

// Close releases the transient preview file, if any. Safe to call multiple
// times; a closed viewer can be loaded again.
func (v *Viewer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dropPreviewLocked()
	return nil
}

func (v *Viewer) dropPreviewLocked() {
	if v.previewPath != "" {
		_ = os.Remove(v.previewPath)
		v.previewPath = ""
	}
}
