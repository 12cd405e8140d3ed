package models

import "time"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Terminal reports whether no further status transitions are defined
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task represents an async report generation task. The server owns a task
// after creation; clients only observe snapshots of it via polling.
type Task struct {
	ID        string          `json:"id" bson:"_id"`
	Status    TaskStatus      `json:"status" bson:"status"`
	Progress  int             `json:"progress" bson:"progress"`
	Request   GenerateRequest `json:"request" bson:"request"`
	CreatedAt time.Time       `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updatedAt"`
	Error     string          `json:"error,omitempty" bson:"error,omitempty"`

	// Server-side only, never part of a status snapshot.
	ArtifactPath  string            `json:"-" bson:"artifactPath,omitempty"`
	SectionErrors map[string]string `json:"-" bson:"sectionErrors,omitempty"`
}

// Clone returns a copy safe to hand to callers outside the task store.
func (t *Task) Clone() *Task {
	c := *t
	if t.SectionErrors != nil {
		c.SectionErrors = make(map[string]string, len(t.SectionErrors))
		for k, v := range t.SectionErrors {
			c.SectionErrors[k] = v
		}
	}
	c.Request.Sections = append([]string(nil), t.Request.Sections...)
	return &c
}
