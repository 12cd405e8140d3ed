// Package wizard owns the multi-step form state that collects a report
// request: a draft input, per-field validation, and a linear step cursor.
// The draft has a single owner, so the wizard is not safe for concurrent use.
package wizard

import (
	"context"
	"fmt"
	"log"
	"strings"

	"account-research-report/internal/models"
)

// Step is the cursor position in the ordered step list
type Step int

const (
	StepTargetCompany Step = iota
	StepAboutYou
	StepOptions

	stepCount
)

// String returns the display title of a step
func (s Step) String() string {
	switch s {
	case StepTargetCompany:
		return "Target Company"
	case StepAboutYou:
		return "About You"
	case StepOptions:
		return "Language/Options"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Field names an editable input of the draft
type Field string

const (
	FieldTargetCompany Field = "targetCompany"
	FieldUserCompany   Field = "userCompany"
	FieldLanguage      Field = "language"
	FieldSections      Field = "sections"
)

// stepFields maps each step to the fields it edits; forward navigation off a
// step is gated on these.
var stepFields = map[Step][]Field{
	StepTargetCompany: {FieldTargetCompany},
	StepAboutYou:      {FieldUserCompany},
	StepOptions:       {FieldLanguage, FieldSections},
}

// Handler consumes a fully validated draft on submit
type Handler func(ctx context.Context, input models.GenerateRequest) error

// Wizard holds the draft request and the step cursor
type Wizard struct {
	draft     models.GenerateRequest
	step      Step
	fieldErrs map[Field]string
}

// New creates a wizard with default draft values: English, no section filter
func New() *Wizard {
	w := &Wizard{
		draft: models.GenerateRequest{
			Language: models.DefaultLanguage,
			Sections: []string{},
		},
		fieldErrs: make(map[Field]string),
	}
	w.validateAll()
	return w
}

// Draft returns a copy of the current draft
func (w *Wizard) Draft() models.GenerateRequest {
	d := w.draft
	d.Sections = append([]string{}, w.draft.Sections...)
	return d
}

// Step returns the current step cursor
func (w *Wizard) Step() Step {
	return w.step
}

// SetTargetCompany updates the target company field and revalidates it
func (w *Wizard) SetTargetCompany(v string) {
	w.draft.TargetCompany = v
	w.validateField(FieldTargetCompany)
}

// SetUserCompany updates the requester company field and revalidates it
func (w *Wizard) SetUserCompany(v string) {
	w.draft.UserCompany = v
	w.validateField(FieldUserCompany)
}

// SetLanguage updates the language field and revalidates it. An empty value
// resets to the default.
func (w *Wizard) SetLanguage(v string) {
	if v == "" {
		v = models.DefaultLanguage
	}
	w.draft.Language = v
	w.validateField(FieldLanguage)
}

// SetSections replaces the section selection. An empty selection is kept
// empty: downstream it means "all sections".
func (w *Wizard) SetSections(ids []string) {
	w.draft.Sections = append([]string{}, ids...)
	w.validateField(FieldSections)
}

// FieldError returns the latest validation error for a field, or "" if the
// field is valid
func (w *Wizard) FieldError(f Field) string {
	return w.fieldErrs[f]
}

// StepValid reports whether every field edited by the given step passes
// validation
func (w *Wizard) StepValid(s Step) bool {
	for _, f := range stepFields[s] {
		if w.fieldErrs[f] != "" {
			return false
		}
	}
	return true
}

// IsValid reports whether the whole draft passes validation
func (w *Wizard) IsValid() bool {
	return len(w.fieldErrs) == 0
}

// Next advances to the following step. Forward navigation is blocked while
// the current step is invalid.
func (w *Wizard) Next() error {
	return w.SetStep(w.step + 1)
}

// Back moves to the previous step; always permitted
func (w *Wizard) Back() {
	if w.step > 0 {
		w.step--
	}
}

// SetStep moves the cursor. Moving backward is always permitted; moving
// forward requires every step being left behind to be valid.
func (w *Wizard) SetStep(n Step) error {
	if n < 0 || n >= stepCount {
		return fmt.Errorf("no such step: %d", int(n))
	}
	if n <= w.step {
		w.step = n
		return nil
	}
	for s := w.step; s < n; s++ {
		if !w.StepValid(s) {
			return fmt.Errorf("step %q has invalid fields", s)
		}
	}
	w.step = n
	return nil
}

// Submit runs full-draft validation and, only when every field passes,
// invokes the handler with the validated input. A handler failure (error or
// panic) is logged and returned; the wizard stays on its current step either
// way, so the user can retry.
func (w *Wizard) Submit(ctx context.Context, handler Handler) (err error) {
	w.validateAll()
	if !w.IsValid() {
		var parts []string
		for _, f := range []Field{FieldTargetCompany, FieldUserCompany, FieldLanguage, FieldSections} {
			if msg := w.fieldErrs[f]; msg != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
			}
		}
		return fmt.Errorf("draft is not valid: %s", strings.Join(parts, "; "))
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: submit handler panicked: %v", r)
			err = fmt.Errorf("submit handler panicked: %v", r)
		}
	}()

	if err := handler(ctx, w.Draft()); err != nil {
		log.Printf("ERROR: submit handler failed: %v", err)
		return err
	}
	return nil
}

func (w *Wizard) validateAll() {
	for _, f := range []Field{FieldTargetCompany, FieldUserCompany, FieldLanguage, FieldSections} {
		w.validateField(f)
	}
}

func (w *Wizard) validateField(f Field) {
	var msg string
	switch f {
	case FieldTargetCompany:
		if len(strings.TrimSpace(w.draft.TargetCompany)) < 2 {
			msg = "target company must be at least 2 characters"
		}
	case FieldUserCompany:
		if len(strings.TrimSpace(w.draft.UserCompany)) < 2 {
			msg = "your company must be at least 2 characters"
		}
	case FieldLanguage:
		if !models.IsValidLanguage(w.draft.Language) {
			msg = fmt.Sprintf("unsupported language: %s", w.draft.Language)
		}
	case FieldSections:
		if _, err := models.ResolveSections(w.draft.Sections); err != nil {
			msg = err.Error()
		}
	}

	if msg == "" {
		delete(w.fieldErrs, f)
	} else {
		w.fieldErrs[f] = msg
	}
}
