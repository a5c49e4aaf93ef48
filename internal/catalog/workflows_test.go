package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/concord-chat/chatinput/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadWorkflowDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-triage.yaml", `
id: wf-triage
name: Triage
description: Sort incoming issues
icon:
  type: emoji
  value: "🧹"
`)
	writeFile(t, dir, "a-deploy.yml", `
name: Deploy
description: Ship the current branch
`)
	writeFile(t, dir, "notes.txt", "not a workflow")
	writeFile(t, dir, "c-broken.yaml", "name: [unterminated")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	got, err := LoadWorkflowDir(dir, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Deploy", got[0].Name)
	assert.Equal(t, models.DeriveID("workflow", "Deploy"), got[0].ID)
	assert.Nil(t, got[0].Icon)

	assert.Equal(t, models.Workflow{
		ID:          "wf-triage",
		Name:        "Triage",
		Description: "Sort incoming issues",
		Icon:        &models.WorkflowIcon{Type: "emoji", Value: "🧹"},
	}, got[1])
}

func TestLoadWorkflowDir_Missing(t *testing.T) {
	got, err := LoadWorkflowDir(filepath.Join(t.TempDir(), "absent"), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadWorkflowFile_NameFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "release-notes.yaml", "description: Draft release notes\n")

	wf, err := LoadWorkflowFile(filepath.Join(dir, "release-notes.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "release-notes", wf.Name)
	assert.NotEmpty(t, wf.ID)
}
