// Package mapping translates source-tenant keys into target-tenant
// identifiers, either from static CSV tables loaded once per run or by
// querying the target tenant on demand.
package mapping

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lever2lever/migrator/appcontext"
)

// Static mapping file names expected inside the mapping directory.
const (
	PostingsFile       = "Lever_Postings.csv"
	ArchiveReasonsFile = "Lever_archiveReasons.csv"
	StagesFile         = "Lever_Stages.csv"

	sourceIDColumn = "sourceid"
	targetIDColumn = "targetid"
)

var errMissingColumn = errors.New("mapping file is missing a required column")
var errMalformedRow = errors.New("mapping file contains a malformed row")

func MissingColumnError(file, column string) error {
	return fmt.Errorf("%w, %s: %s", errMissingColumn, file, column)
}

func MalformedRowError(file string, line int) error {
	return fmt.Errorf("%w, %s: line %d", errMalformedRow, file, line)
}

// Table is an immutable source-key to target-identifier mapping.
type Table map[string]string

// Lookup returns the target identifier for a source key.
func (t Table) Lookup(sourceKey string) (string, bool) {
	targetID, ok := t[sourceKey]
	return targetID, ok
}

// Tables holds the three static mapping tables, loaded once before any
// record is processed. Read-only during a run.
type Tables struct {
	Postings       Table
	ArchiveReasons Table
	Stages         Table
}

// LoadTables reads the three mapping CSV files from the given directory.
// A missing file or malformed row fails the whole run rather than silently
// skipping entries.
func LoadTables(ctx context.Context, dir string) (*Tables, error) {
	logger := appcontext.LoggerFromContext(ctx)

	postings, err := loadTable(ctx, filepath.Join(dir, PostingsFile))
	if err != nil {
		return nil, err
	}

	archiveReasons, err := loadTable(ctx, filepath.Join(dir, ArchiveReasonsFile))
	if err != nil {
		return nil, err
	}

	stages, err := loadTable(ctx, filepath.Join(dir, StagesFile))
	if err != nil {
		return nil, err
	}

	logger.InfoContext(
		ctx,
		"Loaded static mapping tables",
		"postings", len(postings),
		"archiveReasons", len(archiveReasons),
		"stages", len(stages),
	)

	return &Tables{
		Postings:       postings,
		ArchiveReasons: archiveReasons,
		Stages:         stages,
	}, nil
}

// loadTable parses one SourceId,TargetId CSV file into a Table.
func loadTable(ctx context.Context, filePath string) (Table, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Parsing mapping table", "filePath", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ','

	// Read header and create column index map
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header from file %s: %w", filePath, err)
	}
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	sourceIdx, ok := colIndex[sourceIDColumn]
	if !ok {
		return nil, MissingColumnError(filePath, "SourceId")
	}
	targetIdx, ok := colIndex[targetIDColumn]
	if !ok {
		return nil, MissingColumnError(filePath, "TargetId")
	}

	table := make(Table)
	line := 1
	for {
		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record from CSV in file %s: %w", filePath, readErr)
		}
		line++

		sourceID := strings.TrimSpace(record[sourceIdx])
		targetID := strings.TrimSpace(record[targetIdx])
		if sourceID == "" || targetID == "" {
			return nil, MalformedRowError(filePath, line)
		}

		table[sourceID] = targetID
	}

	return table, nil
}
