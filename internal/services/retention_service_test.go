package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"account-research-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_RetiresTerminalTasksAndArtifacts(t *testing.T) {
	tasks := NewTaskService()

	artifactDir := filepath.Join(t.TempDir(), "t1")
	require.NoError(t, os.MkdirAll(artifactDir, 0o755))
	artifactPath := filepath.Join(artifactDir, "account-research-t1.pdf")
	require.NoError(t, os.WriteFile(artifactPath, []byte("%PDF"), 0o644))

	done, err := tasks.CreateTask(models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex"})
	require.NoError(t, err)
	require.NoError(t, tasks.SetTaskCompleted(done.ID, artifactPath, nil))

	running, err := tasks.CreateTask(models.GenerateRequest{TargetCompany: "Initech", UserCompany: "Globex"})
	require.NoError(t, err)
	require.NoError(t, tasks.UpdateTaskStatus(running.ID, models.TaskStatusProcessing))

	// Zero retention age retires every terminal task immediately
	svc := NewRetentionService(tasks, nil, -time.Second)
	svc.Sweep()

	_, err = tasks.GetTask(done.ID)
	assert.Error(t, err)
	assert.NoDirExists(t, artifactDir)

	_, err = tasks.GetTask(running.ID)
	assert.NoError(t, err, "in-flight tasks survive the sweep")
}

func TestSweep_RespectsRetentionAge(t *testing.T) {
	tasks := NewTaskService()
	done, err := tasks.CreateTask(models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex"})
	require.NoError(t, err)
	require.NoError(t, tasks.SetTaskCompleted(done.ID, "", nil))

	svc := NewRetentionService(tasks, nil, time.Hour)
	svc.Sweep()

	_, err = tasks.GetTask(done.ID)
	assert.NoError(t, err, "a freshly completed task stays within the retention window")
}
