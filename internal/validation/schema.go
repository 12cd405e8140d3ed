package validation

import (
	"fmt"
	"strings"

	"account-research-report/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// generateRequestSchema is the wire-level contract for POST /generate. The
// language enum and section IDs are checked semantically afterwards so their
// single source of truth stays in the models package.
const generateRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["targetCompany", "userCompany"],
  "additionalProperties": false,
  "properties": {
    "targetCompany": {"type": "string", "minLength": 2},
    "userCompany": {"type": "string", "minLength": 2},
    "language": {"type": "string"},
    "sections": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

var compiledSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(generateRequestSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid generate request schema: %v", err))
	}
	compiledSchema = schema
}

// ValidateGenerateBody validates a raw request body against the generate
// request schema
func ValidateGenerateBody(body []byte) error {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// ValidateGenerateRequest applies the semantic rules the schema cannot
// express: supported language and known section identifiers. An empty section
// selection is valid and means "all sections".
func ValidateGenerateRequest(req *models.GenerateRequest) error {
	if len(strings.TrimSpace(req.TargetCompany)) < 2 {
		return fmt.Errorf("targetCompany must be at least 2 characters")
	}
	if len(strings.TrimSpace(req.UserCompany)) < 2 {
		return fmt.Errorf("userCompany must be at least 2 characters")
	}

	if req.Language == "" {
		req.Language = models.DefaultLanguage
	}
	if !models.IsValidLanguage(req.Language) {
		return fmt.Errorf("unsupported language: %s", req.Language)
	}

	if _, err := models.ResolveSections(req.Sections); err != nil {
		return err
	}
	return nil
}
