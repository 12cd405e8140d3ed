package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"account-research-report/internal/database"
	"account-research-report/internal/models"
)

// ReportService orchestrates a report generation run: section fan-out, PDF
// rendering, artifact storage, and archival of the finished task.
type ReportService struct {
	tasks        *TaskService
	generator    SectionGenerator
	pdf          *PDFService
	archive      *database.MongoDBClient // optional, nil disables caching
	artifactsDir string
}

// NewReportService creates a new report service
func NewReportService(
	tasks *TaskService,
	generator SectionGenerator,
	pdf *PDFService,
	archive *database.MongoDBClient,
	artifactsDir string,
) *ReportService {
	return &ReportService{
		tasks:        tasks,
		generator:    generator,
		pdf:          pdf,
		archive:      archive,
		artifactsDir: artifactsDir,
	}
}

// CachedArtifact returns the artifact path of a previously completed task for
// an identical request, if one is archived and its PDF still exists on disk.
func (s *ReportService) CachedArtifact(req models.GenerateRequest) (string, bool) {
	if s.archive == nil {
		return "", false
	}
	archived, err := s.archive.FindCompletedByRequest(req)
	if err != nil || archived == nil {
		return "", false
	}
	if archived.ArtifactPath == "" {
		return "", false
	}
	if _, err := os.Stat(archived.ArtifactPath); err != nil {
		return "", false
	}
	return archived.ArtifactPath, true
}

// Process runs the full generation lifecycle for a task. It is meant to be
// launched in a goroutine by the create handler; all outcomes are recorded on
// the task itself, nothing is returned.
func (s *ReportService) Process(ctx context.Context, taskID string, req models.GenerateRequest) {
	_ = s.tasks.UpdateTaskStatus(taskID, models.TaskStatusProcessing)
	_ = s.tasks.SetTaskProgress(taskID, 5)

	sections, err := models.ResolveSections(req.Sections)
	if err != nil {
		_ = s.tasks.SetTaskError(taskID, err)
		return
	}

	generated := s.generateSections(ctx, taskID, req, sections)

	sectionErrors := make(map[string]string)
	succeeded := 0
	var firstErr string
	for _, g := range generated {
		if g.Error != "" {
			sectionErrors[g.ID] = g.Error
			if firstErr == "" {
				firstErr = g.Error
			}
		} else {
			succeeded++
		}
	}

	// The original behavior: render whatever succeeded, fail only when
	// nothing did.
	if succeeded == 0 {
		_ = s.tasks.SetTaskError(taskID, fmt.Errorf("no sections could be generated: %s", firstErr))
		return
	}

	_ = s.tasks.SetTaskProgress(taskID, 85)

	report := &models.Report{
		TargetCompany: req.TargetCompany,
		UserCompany:   req.UserCompany,
		Language:      req.Language,
		GeneratedAt:   time.Now(),
		Sections:      generated,
	}

	pdfBytes, err := s.pdf.RenderReport(report)
	if err != nil {
		_ = s.tasks.SetTaskError(taskID, fmt.Errorf("render report: %w", err))
		return
	}

	artifactPath, err := s.writeArtifact(taskID, pdfBytes)
	if err != nil {
		_ = s.tasks.SetTaskError(taskID, fmt.Errorf("store artifact: %w", err))
		return
	}

	if err := s.tasks.SetTaskCompleted(taskID, artifactPath, sectionErrors); err != nil {
		log.Printf("WARNING: failed to mark task %s completed: %v", taskID, err)
		return
	}

	s.archiveTask(taskID)
}

// generateSections fans out one generation call per section and reports
// progress as sections finish. Order of the result matches the section order.
func (s *ReportService) generateSections(
	ctx context.Context,
	taskID string,
	req models.GenerateRequest,
	sections []models.Section,
) []models.GeneratedSection {
	results := make([]models.GeneratedSection, len(sections))

	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i, section := range sections {
		wg.Add(1)
		go func(i int, section models.Section) {
			defer wg.Done()

			content, err := s.generator.GenerateSection(ctx, req, section)
			result := models.GeneratedSection{
				ID:      section.ID,
				Title:   section.Title,
				Content: content,
			}
			if err != nil {
				log.Printf("ERROR: section %s for task %s: %v", section.ID, taskID, err)
				result.Error = err.Error()
			}

			mu.Lock()
			results[i] = result
			done++
			progress := 5 + (75*done)/len(sections)
			mu.Unlock()

			_ = s.tasks.SetTaskProgress(taskID, progress)
		}(i, section)
	}

	wg.Wait()
	return results
}

// writeArtifact stores the rendered PDF under the artifacts directory
func (s *ReportService) writeArtifact(taskID string, pdfBytes []byte) (string, error) {
	dir := filepath.Join(s.artifactsDir, taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	path := filepath.Join(dir, models.ArtifactFileName(taskID))
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// archiveTask stores the completed task in MongoDB so identical requests can
// be served from cache. Archival failure never fails the task.
func (s *ReportService) archiveTask(taskID string) {
	if s.archive == nil {
		return
	}
	task, err := s.tasks.GetTask(taskID)
	if err != nil {
		return
	}
	if err := s.archive.SaveCompletedTask(task); err != nil {
		log.Printf("WARNING: failed to archive task %s: %v", taskID, err)
	}
}
