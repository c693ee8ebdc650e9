package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const licenseLine = " * Copyright 2025 Carver Automation Corporation."

func TestSourceFilesCarryLicenseHeader(t *testing.T) {
	var checked int

	for _, root := range []string{".", filepath.Join("..", "..", "pkg")} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}

			name := d.Name()
			if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || strings.HasPrefix(name, "mock_") {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			lines := strings.SplitN(string(data), "\n", 3)
			if assert.Len(t, lines, 3, path) {
				assert.Contains(t, []string{"/*", "/*-"}, lines[0], path)
				assert.Equal(t, licenseLine, lines[1], path)
			}

			checked++

			return nil
		})
		require.NoError(t, err)
	}

	assert.Positive(t, checked)
}
