package models

// GenerateRequest represents the request to generate an account research report.
// An empty Sections slice means "all sections" and must be preserved as-is.
type GenerateRequest struct {
	TargetCompany string   `json:"targetCompany" bson:"targetCompany" binding:"required,min=2"`
	UserCompany   string   `json:"userCompany" bson:"userCompany" binding:"required,min=2"`
	Language      string   `json:"language" bson:"language"`
	Sections      []string `json:"sections" bson:"sections"`
}

// TaskResponse represents the response when creating a task
type TaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"` // "pending", "processing", "completed", "failed"
}

// RequesterProfile identifies who is asking for a report. It is captured once
// on the client and persisted locally; polling is gated on its presence.
type RequesterProfile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
}
