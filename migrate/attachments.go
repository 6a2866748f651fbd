package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"lever2lever/migrator/appcontext"
	"lever2lever/migrator/leverapi"
	"lever2lever/migrator/model"
)

// Per-kind staging subdirectories under the work directory.
const (
	resumesDir    = "resumes"
	offersDir     = "offers"
	otherFilesDir = "otherFiles"
)

// Stager downloads record attachments from the source tenant into the local
// staging tree, pending re-upload during creation.
type Stager struct {
	source  *leverapi.Client
	workDir string
}

// NewStager creates a Stager rooted at the given work directory.
func NewStager(source *leverapi.Client, workDir string) *Stager {
	return &Stager{source: source, workDir: workDir}
}

// PrepareWorkDir deletes and recreates the per-kind staging directories so
// no stale files leak between runs.
func (s *Stager) PrepareWorkDir() error {
	for _, kind := range []string{resumesDir, offersDir, otherFilesDir} {
		dir := filepath.Join(s.workDir, kind)

		if _, err := os.Stat(dir); err == nil {
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to remove staging directory '%s': %w", dir, err)
			}
		}

		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create staging directory '%s': %w", dir, err)
		}
	}

	return nil
}

// StageBatch downloads every resume, offer document, and other file across
// the batch concurrently, recording the staged local paths on each record. A
// download's own failure is logged and leaves a missing file for submission
// time to skip; it never aborts sibling downloads.
func (s *Stager) StageBatch(ctx context.Context, records []*model.Record) {
	logger := appcontext.LoggerFromContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for _, record := range records {
		s.enqueueDownloads(gctx, g, record, logger)
	}
	// Join barrier: download workers swallow their own failures.
	_ = g.Wait()

	for _, record := range records {
		logger.InfoContext(ctx, "Downloaded files",
			"resumes", len(record.ResumeURLs),
			"otherFiles", len(record.OtherFileURLs),
			"opportunity", record.OppLeverID,
		)
	}
}

// enqueueDownloads records the staged path of every attachment of one record
// and schedules its download on the group.
func (s *Stager) enqueueDownloads(
	ctx context.Context,
	g *errgroup.Group,
	record *model.Record,
	logger *slog.Logger,
) {
	for _, resume := range record.Resumes {
		dest := filepath.Join(s.workDir, resumesDir, resume.File.Name)
		record.ResumeURLs = append(record.ResumeURLs, dest)

		resumeID := resume.ID
		g.Go(func() error {
			if err := s.source.DownloadResume(ctx, record.OppLeverID, resumeID, dest); err != nil {
				logger.WarnContext(ctx, "Failed to download resume",
					"oppId", record.OppLeverID, "resumeId", resumeID, "error", err)
			}
			return nil
		})
	}

	for _, offer := range record.Offers {
		dest := filepath.Join(s.workDir, offersDir, offer.SignedDocument)
		record.OtherFileURLs = append(record.OtherFileURLs, dest)

		offerID := offer.ID
		g.Go(func() error {
			if err := s.source.DownloadOfferFile(ctx, record.OppLeverID, offerID, dest); err != nil {
				logger.WarnContext(ctx, "Failed to download offer document",
					"oppId", record.OppLeverID, "offerId", offerID, "error", err)
			}
			return nil
		})
	}

	for _, file := range record.OtherFiles {
		dest := filepath.Join(s.workDir, otherFilesDir, file.Name)
		record.OtherFileURLs = append(record.OtherFileURLs, dest)

		fileID := file.ID
		g.Go(func() error {
			if err := s.source.DownloadFile(ctx, record.OppLeverID, fileID, dest); err != nil {
				logger.WarnContext(ctx, "Failed to download file",
					"oppId", record.OppLeverID, "fileId", fileID, "error", err)
			}
			return nil
		})
	}
}

// firstExistingFile returns the first staged path present on disk, or empty
// when every candidate is missing. At most one resume file is submitted.
func firstExistingFile(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// existingFiles filters staged paths down to the ones present on disk.
func existingFiles(paths []string) []string {
	var existing []string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}

	return existing
}
