// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcuzon/accounts/internal/config"
)

func TestRun_WritesSchema(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "nested", "schema.json")
	var out bytes.Buffer

	require.NoError(t, run(outPath, &out))
	assert.Equal(t, "Generated "+outPath+"\n", out.String())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, config.SchemaID, doc["$id"])
}

func TestRun_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := run(filepath.Join(blocker, "schema.json"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating directory")
}
