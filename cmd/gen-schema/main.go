// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Command gen-schema writes the configuration JSON Schema used by editors
// and by `accounts config validate`.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/calcuzon/accounts/internal/config"
)

const defaultOutPath = "schemas/accounts.config.schema.json"

func main() {
	outPath := defaultOutPath
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}
	if err := run(outPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outPath string, out io.Writer) error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	if err := os.WriteFile(outPath, append(schema, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	_, err = fmt.Fprintf(out, "Generated %s\n", outPath)
	return err
}
