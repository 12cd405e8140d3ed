package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"account-research-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (g *stubGenerator) GenerateSection(ctx context.Context, req models.GenerateRequest, section models.Section) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, section.ID)
	g.mu.Unlock()

	if g.fail[section.ID] {
		return "", errors.New("model unavailable")
	}
	return fmt.Sprintf("## Overview\nFindings on %s for %s.", req.TargetCompany, req.UserCompany), nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func newTestReportService(t *testing.T, gen SectionGenerator) (*ReportService, *TaskService) {
	t.Helper()
	tasks := NewTaskService()
	return NewReportService(tasks, gen, NewPDFService(), nil, t.TempDir()), tasks
}

func TestProcess_EmptySectionsGeneratesAll(t *testing.T) {
	gen := &stubGenerator{}
	svc, tasks := newTestReportService(t, gen)

	req := models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Language: "English", Sections: []string{}}
	task, err := tasks.CreateTask(req)
	require.NoError(t, err)

	svc.Process(context.Background(), task.ID, req)

	got, err := tasks.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, len(models.SectionOrder), gen.callCount())

	assert.Equal(t, models.ArtifactFileName(task.ID), filepath.Base(got.ArtifactPath))
	data, err := os.ReadFile(got.ArtifactPath)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF", "artifact must be a PDF")
}

func TestProcess_SelectedSectionsOnly(t *testing.T) {
	gen := &stubGenerator{}
	svc, tasks := newTestReportService(t, gen)

	req := models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Language: "English", Sections: []string{"basic", "financial"}}
	task, err := tasks.CreateTask(req)
	require.NoError(t, err)

	svc.Process(context.Background(), task.ID, req)

	got, _ := tasks.GetTask(task.ID)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.Equal(t, 2, gen.callCount())
	assert.ElementsMatch(t, []string{"basic", "financial"}, gen.calls)
}

func TestProcess_PartialFailureStillCompletes(t *testing.T) {
	gen := &stubGenerator{fail: map[string]bool{"financial": true}}
	svc, tasks := newTestReportService(t, gen)

	req := models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Language: "English", Sections: []string{"basic", "financial"}}
	task, err := tasks.CreateTask(req)
	require.NoError(t, err)

	svc.Process(context.Background(), task.ID, req)

	got, _ := tasks.GetTask(task.ID)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.Equal(t, "model unavailable", got.SectionErrors["financial"])
	assert.FileExists(t, got.ArtifactPath)
}

func TestProcess_AllSectionsFailing(t *testing.T) {
	gen := &stubGenerator{fail: map[string]bool{"basic": true, "financial": true}}
	svc, tasks := newTestReportService(t, gen)

	req := models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Language: "English", Sections: []string{"basic", "financial"}}
	task, err := tasks.CreateTask(req)
	require.NoError(t, err)

	svc.Process(context.Background(), task.ID, req)

	got, _ := tasks.GetTask(task.ID)
	assert.Equal(t, models.TaskStatusFailed, got.Status)
	assert.Contains(t, got.Error, "no sections could be generated")
	assert.Empty(t, got.ArtifactPath)
}

func TestProcess_UnknownSectionFails(t *testing.T) {
	gen := &stubGenerator{}
	svc, tasks := newTestReportService(t, gen)

	req := models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Language: "English", Sections: []string{"bogus"}}
	task, err := tasks.CreateTask(req)
	require.NoError(t, err)

	svc.Process(context.Background(), task.ID, req)

	got, _ := tasks.GetTask(task.ID)
	assert.Equal(t, models.TaskStatusFailed, got.Status)
	assert.Equal(t, 0, gen.callCount())
}
