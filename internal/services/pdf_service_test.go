package services

import (
	"testing"
	"time"

	"account-research-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReport(t *testing.T) {
	svc := NewPDFService()

	report := &models.Report{
		TargetCompany: "Acme",
		UserCompany:   "Globex",
		Language:      "English",
		GeneratedAt:   time.Now(),
		Sections: []models.GeneratedSection{
			{ID: "basic", Title: "Basic Information", Content: "# Overview\n\nAcme makes **everything**.\n\n- Founded 1947\n- HQ in Springfield"},
			{ID: "financial", Title: "Financial Analysis", Error: "rate limited"},
		},
	}

	data, err := svc.RenderReport(report)
	require.NoError(t, err)
	require.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderReport_InvalidInput(t *testing.T) {
	svc := NewPDFService()

	_, err := svc.RenderReport(nil)
	assert.Error(t, err)

	_, err = svc.RenderReport(&models.Report{TargetCompany: "Acme"})
	assert.Error(t, err)
}
