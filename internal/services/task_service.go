package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"account-research-report/internal/models"
	"account-research-report/internal/utils"
)

// TaskService manages async report generation tasks in memory. Completed
// tasks remain listed until retired by the retention sweep.
type TaskService struct {
	tasks map[string]*models.Task
	mutex sync.RWMutex
}

// NewTaskService creates a new task service
func NewTaskService() *TaskService {
	return &TaskService{
		tasks: make(map[string]*models.Task),
	}
}

// CreateTask creates a new pending task for the given request
func (s *TaskService) CreateTask(request models.GenerateRequest) (*models.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	taskID := utils.GenerateUUID()
	now := time.Now()

	task := &models.Task{
		ID:        taskID,
		Status:    models.TaskStatusPending,
		Request:   request,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.tasks[taskID] = task
	return task.Clone(), nil
}

// GetTask retrieves a snapshot of a task by ID
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}

	return task.Clone(), nil
}

// ListTasks returns snapshots of all live tasks, newest first
func (s *TaskService) ListTasks() []*models.Task {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		out = append(out, task.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UpdateTaskStatus updates the status of a task
func (s *TaskService) UpdateTaskStatus(taskID string, status models.TaskStatus) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}

	task.Status = status
	task.UpdatedAt = time.Now()
	return nil
}

// SetTaskProgress records the latest progress percentage for a task
func (s *TaskService) SetTaskProgress(taskID string, progress int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	task.Progress = progress
	task.UpdatedAt = time.Now()
	return nil
}

// SetTaskError marks a task as failed with an error message
func (s *TaskService) SetTaskError(taskID string, err error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}

	task.Status = models.TaskStatusFailed
	task.Error = err.Error()
	task.UpdatedAt = time.Now()
	return nil
}

// SetTaskCompleted marks a task as completed with its rendered artifact
func (s *TaskService) SetTaskCompleted(taskID, artifactPath string, sectionErrors map[string]string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return fmt.Errorf("task not found: %s", taskID)
	}

	task.Status = models.TaskStatusCompleted
	task.Progress = 100
	task.ArtifactPath = artifactPath
	task.SectionErrors = sectionErrors
	task.UpdatedAt = time.Now()
	return nil
}

// InsertCompletedTask registers an already-completed task, used when a cached
// report satisfies a new request without a generation run.
func (s *TaskService) InsertCompletedTask(request models.GenerateRequest, artifactPath string) (*models.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	taskID := utils.GenerateUUID()
	now := time.Now()

	task := &models.Task{
		ID:           taskID,
		Status:       models.TaskStatusCompleted,
		Progress:     100,
		Request:      request,
		CreatedAt:    now,
		UpdatedAt:    now,
		ArtifactPath: artifactPath,
	}

	s.tasks[taskID] = task
	return task.Clone(), nil
}

// DeleteTask removes a task from memory
func (s *TaskService) DeleteTask(taskID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.tasks, taskID)
}

// RetireTasksBefore removes terminal tasks last updated before the cutoff and
// returns their snapshots so callers can clean up artifacts.
func (s *TaskService) RetireTasksBefore(cutoff time.Time) []*models.Task {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var retired []*models.Task
	for id, task := range s.tasks {
		if task.Status.Terminal() && task.UpdatedAt.Before(cutoff) {
			retired = append(retired, task.Clone())
			delete(s.tasks, id)
		}
	}
	return retired
}
