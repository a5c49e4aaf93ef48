package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/concord-chat/chatinput/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadWorkflowFile reads one workflow definition from a YAML file
func LoadWorkflowFile(path string) (*models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var wf models.Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", filepath.Base(path), err)
	}

	if strings.TrimSpace(wf.Name) == "" {
		wf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	wf.EnsureID()

	return &wf, nil
}

// LoadWorkflowDir loads every *.yaml / *.yml file in dir, sorted by file
// name. A missing directory yields no workflows. Files that fail to parse
// are logged and skipped.
func LoadWorkflowDir(dir string, logger *slog.Logger) ([]models.Workflow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workflows directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	workflows := make([]models.Workflow, 0, len(names))
	for _, name := range names {
		wf, err := LoadWorkflowFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping workflow", "file", name, "error", err)
			continue
		}
		workflows = append(workflows, *wf)
	}

	logger.Debug("loaded workflows", "dir", dir, "count", len(workflows))
	return workflows, nil
}
