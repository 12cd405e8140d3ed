package models

import (
	"fmt"
	"time"
)

// Section identifies one report section and its display title
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SectionOrder lists every report section in the order it appears in the
// rendered report. Selecting no sections means selecting all of them.
var SectionOrder = []Section{
	{ID: "basic", Title: "Basic Information"},
	{ID: "vision", Title: "Vision Analysis"},
	{ID: "management_strategy", Title: "Management Strategy"},
	{ID: "management_message", Title: "Management Message"},
	{ID: "crisis", Title: "Crisis Management"},
	{ID: "digital_transformation", Title: "Digital Transformation Analysis"},
	{ID: "financial", Title: "Financial Analysis"},
	{ID: "competitive", Title: "Competitive Landscape"},
	{ID: "regulatory", Title: "Regulatory Environment"},
	{ID: "business_structure", Title: "Business Structure"},
	{ID: "strategy_research", Title: "Strategy Research"},
}

// AvailableLanguages lists the languages a report can be generated in
var AvailableLanguages = []string{
	"Japanese",
	"English",
	"Chinese",
	"Korean",
	"Vietnamese",
	"Thai",
	"Indonesian",
	"Spanish",
	"German",
	"French",
}

// DefaultLanguage is used when a request leaves the language empty
const DefaultLanguage = "English"

// IsValidLanguage reports whether lang is one of the supported languages
func IsValidLanguage(lang string) bool {
	for _, l := range AvailableLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// SectionByID looks up a section definition by its identifier
func SectionByID(id string) (Section, bool) {
	for _, s := range SectionOrder {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// ResolveSections maps requested section IDs to section definitions,
// preserving report order. An empty selection resolves to all sections.
func ResolveSections(ids []string) ([]Section, error) {
	if len(ids) == 0 {
		return append([]Section(nil), SectionOrder...), nil
	}
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := SectionByID(id); !ok {
			return nil, fmt.Errorf("unknown section: %s", id)
		}
		selected[id] = true
	}
	var out []Section
	for _, s := range SectionOrder {
		if selected[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

// GeneratedSection holds the generated content for one report section
type GeneratedSection struct {
	ID      string `json:"id" bson:"id"`
	Title   string `json:"title" bson:"title"`
	Content string `json:"content" bson:"content"`
	Error   string `json:"error,omitempty" bson:"error,omitempty"`
}

// Report is the assembled result of a generation run, ready for rendering
type Report struct {
	TargetCompany string             `json:"targetCompany" bson:"targetCompany"`
	UserCompany   string             `json:"userCompany" bson:"userCompany"`
	Language      string             `json:"language" bson:"language"`
	GeneratedAt   time.Time          `json:"generatedAt" bson:"generatedAt"`
	Sections      []GeneratedSection `json:"sections" bson:"sections"`
}

// ArtifactFileName returns the download filename for a task's PDF artifact
func ArtifactFileName(taskID string) string {
	return fmt.Sprintf("account-research-%s.pdf", taskID)
}
