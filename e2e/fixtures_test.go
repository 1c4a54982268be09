//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateTestWorkspace creates a temporary directory to index
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateFiles writes files below the workspace; keys are slash separated
// paths, values the contents
func (tf *TUITestFramework) CreateFiles(files map[string]string) error {
	if tf.workspace == "" {
		return fmt.Errorf("workspace not created")
	}
	for name, contents := range files {
		full := filepath.Join(tf.workspace, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("create dir for %s: %w", name, err)
		}
		if err := os.WriteFile(full, []byte(contents), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// CreateSampleProject lays out a small source tree
func (tf *TUITestFramework) CreateSampleProject() (string, error) {
	workspace, err := tf.CreateTestWorkspace()
	if err != nil {
		return "", err
	}
	err = tf.CreateFiles(map[string]string{
		"src/main.go":         "package main\n",
		"src/model.go":        "package main\n\n// preview marker\n",
		"docs/readme.md":      "# docs\n",
		"node_modules/x/a.js": "",
		".pathgrip.toml":      "version = 1\n\n[search]\ndebounce_ms = 50\n",
	})
	return workspace, err
}
