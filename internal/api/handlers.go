package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"account-research-report/internal/models"
	"account-research-report/internal/services"
	"account-research-report/internal/validation"

	"github.com/gin-gonic/gin"
)

// maxGenerateBodySize bounds the POST /generate body; a valid request is a
// few hundred bytes at most
const maxGenerateBodySize = 1 << 20

// Handlers contains all HTTP handlers
type Handlers struct {
	reportService *services.ReportService
	taskService   *services.TaskService
}

// NewHandlers creates a new handlers instance
func NewHandlers(reportService *services.ReportService, taskService *services.TaskService) *Handlers {
	return &Handlers{
		reportService: reportService,
		taskService:   taskService,
	}
}

// GenerateHandler handles POST /generate
func (h *Handlers) GenerateHandler(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxGenerateBodySize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if err := validation.ValidateGenerateBody(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req models.GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validation.ValidateGenerateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Serve an identical, already-rendered request from the archive: the task
	// is born completed and no generation run starts.
	if artifactPath, ok := h.reportService.CachedArtifact(req); ok {
		task, err := h.taskService.InsertCompletedTask(req, artifactPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
			return
		}
		c.JSON(http.StatusOK, models.TaskResponse{
			TaskID: task.ID,
			Status: string(task.Status),
		})
		return
	}

	task, err := h.taskService.CreateTask(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	// Start async report generation. The request context dies with this
	// handler, so the background run gets its own.
	go h.reportService.Process(context.Background(), task.ID, req)

	c.JSON(http.StatusAccepted, models.TaskResponse{
		TaskID: task.ID,
		Status: string(task.Status),
	})
}

// StatusHandler handles GET /status/:taskId
func (h *Handlers) StatusHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasksHandler handles GET /tasks
func (h *Handlers) ListTasksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.taskService.ListTasks())
}

// ResultHandler handles GET /result/:taskId/pdf
func (h *Handlers) ResultHandler(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if task.Status != models.TaskStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "task not completed", "status": task.Status})
		return
	}

	if task.ArtifactPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}
	if _, err := os.Stat(task.ArtifactPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+models.ArtifactFileName(task.ID)+`"`)
	c.Header("Content-Type", "application/pdf")
	c.File(task.ArtifactPath)
}

// LanguagesHandler handles GET /languages
func (h *Handlers) LanguagesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": models.AvailableLanguages,
		"default":   models.DefaultLanguage,
	})
}

// SectionsHandler handles GET /sections
func (h *Handlers) SectionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": models.SectionOrder})
}
