// Package seed scaffolds the static mapping CSV files a migration run
// expects, so operators can fill in the cross-tenant identifier pairs.
package seed

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lever2lever/migrator/mapping"
)

const defaultMappingDir = "./mapping-data"

// RunInitMappings writes the three mapping file templates.
func RunInitMappings(ctx context.Context, logger *slog.Logger, args []string) error {
	initFlagSet := flag.NewFlagSet("init-mappings", flag.ExitOnError)
	dir := initFlagSet.String("dir", defaultMappingDir, "Directory to write mapping templates to")
	if err := initFlagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	logger.InfoContext(ctx, "Writing mapping templates", "dir", *dir)
	if err := WriteMappingTemplates(*dir); err != nil {
		return fmt.Errorf("failed to write mapping templates: %w", err)
	}
	logger.InfoContext(ctx, "Mapping templates written successfully")
	return nil
}

// WriteMappingTemplates creates the mapping directory and one header-only
// CSV per table. Existing files are left untouched so filled-in mappings
// survive a re-run.
func WriteMappingTemplates(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	files := []string{mapping.PostingsFile, mapping.ArchiveReasonsFile, mapping.StagesFile}
	for _, name := range files {
		filePath := filepath.Join(dir, name)
		if _, err := os.Stat(filePath); err == nil {
			continue
		}

		if err := writeTemplate(filePath); err != nil {
			return err
		}
	}

	return nil
}

func writeTemplate(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"SourceId", "TargetId"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return nil
}
