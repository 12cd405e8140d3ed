package profile

import (
	"path/filepath"
	"testing"

	"account-research-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *models.RequesterProfile {
	return &models.RequesterProfile{
		Name:        "Jane Doe",
		Email:       "jane@globex.example",
		Designation: "Account Executive",
	}
}

func TestStore_SaveLoadExists(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "profile.json"))
	assert.False(t, store.Exists())

	require.NoError(t, store.Save(validProfile()))
	assert.True(t, store.Exists())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@globex.example", got.Email)
	assert.Equal(t, "Account Executive", got.Designation)
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "profile.json"))

	p := validProfile()
	p.Email = "not-an-email"
	assert.Error(t, store.Save(p))
	assert.False(t, store.Exists(), "invalid profile must not be persisted")
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "profile.json"))
	_, err := store.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *models.RequesterProfile)
		wantErr bool
	}{
		{"valid", func(p *models.RequesterProfile) {}, false},
		{"missing name", func(p *models.RequesterProfile) { p.Name = "  " }, true},
		{"bad email", func(p *models.RequesterProfile) { p.Email = "jane@" }, true},
		{"missing designation", func(p *models.RequesterProfile) { p.Designation = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := Validate(p)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
