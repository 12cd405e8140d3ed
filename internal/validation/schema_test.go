package validation

import (
	"testing"

	"account-research-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGenerateBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid minimal", `{"targetCompany":"Acme","userCompany":"Globex"}`, false},
		{"valid full", `{"targetCompany":"Acme","userCompany":"Globex","language":"English","sections":["basic"]}`, false},
		{"empty sections allowed", `{"targetCompany":"Acme","userCompany":"Globex","sections":[]}`, false},
		{"target too short", `{"targetCompany":"A","userCompany":"Globex"}`, true},
		{"missing user company", `{"targetCompany":"Acme"}`, true},
		{"unknown field rejected", `{"targetCompany":"Acme","userCompany":"Globex","extra":1}`, true},
		{"wrong sections type", `{"targetCompany":"Acme","userCompany":"Globex","sections":"basic"}`, true},
		{"not json", `{{{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenerateBody([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGenerateRequest(t *testing.T) {
	t.Run("defaults empty language", func(t *testing.T) {
		req := &models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex"}
		require.NoError(t, ValidateGenerateRequest(req))
		assert.Equal(t, models.DefaultLanguage, req.Language)
	})

	t.Run("keeps empty sections empty", func(t *testing.T) {
		req := &models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Sections: []string{}}
		require.NoError(t, ValidateGenerateRequest(req))
		assert.Len(t, req.Sections, 0)
	})

	t.Run("whitespace does not count", func(t *testing.T) {
		req := &models.GenerateRequest{TargetCompany: " A ", UserCompany: "Globex"}
		assert.Error(t, ValidateGenerateRequest(req))
	})

	t.Run("unsupported language", func(t *testing.T) {
		req := &models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Language: "Klingon"}
		assert.Error(t, ValidateGenerateRequest(req))
	})

	t.Run("unknown section", func(t *testing.T) {
		req := &models.GenerateRequest{TargetCompany: "Acme", UserCompany: "Globex", Sections: []string{"bogus"}}
		assert.Error(t, ValidateGenerateRequest(req))
	})
}
