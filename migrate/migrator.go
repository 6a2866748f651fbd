// Package migrate drives the opportunity migration pipeline: it pulls
// batches of unsynced records from the persisted store, translates their
// cross-tenant references, stages attachments, submits creation requests to
// the target tenant, and records the outcome per record.
package migrate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"lever2lever/migrator/appcontext"
	"lever2lever/migrator/leverapi"
	"lever2lever/migrator/mapping"
	"lever2lever/migrator/model"
)

// RecordStore is the persisted-state gateway the migrator reads and writes
// sync-state rows through.
type RecordStore interface {
	FindUnsynced(ctx context.Context, limit int64) ([]model.Record, error)
	Save(ctx context.Context, record *model.Record) error
	SaveAll(ctx context.Context, records []*model.Record) error
	LogRun(ctx context.Context, entry model.RunLog) error
}

// Dependencies holds all the collaborators of the Migrator.
type Dependencies struct {
	Store            RecordStore
	Tables           *mapping.Tables
	Resolver         *mapping.Resolver
	Stager           *Stager
	Target           *leverapi.Client
	BatchSize        int64
	DefaultPerformAs string
	RunID            string
}

// Migrator orchestrates the batch loop over the unsynced backlog. It assumes
// single-runner semantics: no record-level claim is taken, so two concurrent
// runs against the same tenant pair are not safe.
type Migrator struct {
	store            RecordStore
	tables           *mapping.Tables
	resolver         *mapping.Resolver
	stager           *Stager
	target           *leverapi.Client
	batchSize        int64
	defaultPerformAs string
	runID            string
}

// New creates a Migrator from its dependencies.
func New(deps Dependencies) *Migrator {
	return &Migrator{
		store:            deps.Store,
		tables:           deps.Tables,
		resolver:         deps.Resolver,
		stager:           deps.Stager,
		target:           deps.Target,
		batchSize:        deps.BatchSize,
		defaultPerformAs: deps.DefaultPerformAs,
		runID:            deps.RunID,
	}
}

// Run drains the unsynced backlog: fetch a page, process every record in it
// concurrently, repeat until a fetch returns empty. Only a fetch failure is
// fatal; every failure local to one record is absorbed into that record's
// outcome.
func (m *Migrator) Run(ctx context.Context) (*Stats, error) {
	logger := appcontext.LoggerFromContext(ctx)
	stats := NewStats()
	startedAt := time.Now()

	if err := m.stager.PrepareWorkDir(); err != nil {
		return nil, fmt.Errorf("failed to prepare staging directories: %w", err)
	}

	for {
		records, err := m.store.FindUnsynced(ctx, m.batchSize)
		if err != nil {
			return stats, fmt.Errorf("failed to fetch unsynced batch: %w", err)
		}
		if len(records) == 0 {
			break
		}

		logger.InfoContext(ctx, "Processing batch", "records", len(records), "runId", m.runID)

		batch := make([]*model.Record, len(records))
		for i := range records {
			batch[i] = &records[i]
		}

		// All attachments across the batch download concurrently; the staged
		// paths are persisted before any creation attempt.
		m.stager.StageBatch(ctx, batch)
		if err := m.store.SaveAll(ctx, batch); err != nil {
			logger.ErrorContext(ctx, "Failed to persist staged file paths", "error", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, record := range batch {
			record := record
			g.Go(func() error {
				m.processRecord(gctx, record, stats)
				return nil
			})
		}
		// Join barrier: record workers absorb their own failures.
		_ = g.Wait()

		if ctx.Err() != nil {
			return stats, fmt.Errorf("migration run interrupted: %w", ctx.Err())
		}
	}

	entry := model.RunLog{
		RunID:        m.runID,
		StartedAt:    startedAt,
		FinishedAt:   time.Now(),
		Processed:    stats.Processed,
		Created:      stats.Created,
		Failed:       stats.Failed,
		NotesCreated: stats.NotesCreated,
	}
	if err := m.store.LogRun(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "Failed to persist run summary", "runId", m.runID, "error", err)
	}

	return stats, nil
}

// processRecord carries one record to a terminal outcome. Whatever happens,
// the record leaves marked synced (successfully or with a logged failure) so
// the next batch query cannot re-select it.
func (m *Migrator) processRecord(ctx context.Context, record *model.Record, stats *Stats) {
	logger := appcontext.LoggerFromContext(ctx)
	opp := record.RecordData

	refs := m.resolveRefs(ctx, opp)
	payload := BuildPayload(opp, refs)

	resumeFile := firstExistingFile(record.ResumeURLs)
	otherFiles := existingFiles(record.OtherFileURLs)

	resp, err := m.target.AddOpportunityWithMultipart(ctx, refs.PerformAs, payload, resumeFile, otherFiles)

	switch {
	case err != nil:
		m.markFailed(ctx, record, stats, err.Error())
	case resp.StatusCode == http.StatusCreated:
		created, parseErr := leverapi.ParseCreatedOpportunity(resp.Body)
		if parseErr != nil || created.ID == "" {
			m.markFailed(ctx, record, stats, string(resp.Body))
			break
		}

		record.IsSynced = true
		record.TargetOppLeverID = created.ID
		record.MigrateDate = time.Now()
		stats.AddCreated()
		logger.InfoContext(ctx, "Created opportunity",
			"targetId", created.ID, "oppId", record.OppLeverID)
	default:
		logger.ErrorContext(ctx, "Error while creating target opportunity",
			"oppId", record.OppLeverID,
			"status", resp.StatusCode,
			"response", string(resp.Body),
		)
		m.markFailed(ctx, record, stats, string(resp.Body))
	}

	// The record is saved exactly once after the creation attempt so a crash
	// mid-batch cannot duplicate work beyond the records still in flight.
	if err := m.store.Save(ctx, record); err != nil {
		logger.ErrorContext(ctx, "Failed to persist record outcome",
			"oppId", record.OppLeverID, "error", err)
	}

	if record.HasError || record.TargetOppLeverID == "" {
		return
	}

	m.replicateNotes(ctx, record, stats)
	if err := m.store.Save(ctx, record); err != nil {
		logger.ErrorContext(ctx, "Failed to persist note outcome",
			"oppId", record.OppLeverID, "error", err)
	}
}

// markFailed records a terminal failure for this run; the record is not
// retried automatically and needs an external corrective action.
func (m *Migrator) markFailed(ctx context.Context, record *model.Record, stats *Stats, reason string) {
	logger := appcontext.LoggerFromContext(ctx)

	record.IsSynced = true
	record.HasError = true
	record.FailureLog = reason
	stats.AddFailure(record.OppLeverID, reason)

	logger.ErrorContext(ctx, "Marked record as failed",
		"oppId", record.OppLeverID, "failure", reason)
}

// resolveRefs translates the record's foreign keys into target-tenant
// identifiers: postings through the static table, owner/stage/archive reason
// through the static table plus the dynamic resolver.
func (m *Migrator) resolveRefs(ctx context.Context, opp model.Opportunity) ResolvedRefs {
	refs := ResolvedRefs{PerformAs: m.defaultPerformAs}

	// Only the final applications entry determines the posting reference:
	// each iteration overwrites the previous match. Preserved as a
	// documented tie-break, not a bug to silently fix.
	for _, application := range opp.Applications {
		if postingID, ok := m.tables.Postings.Lookup(application.Posting); ok {
			refs.PostingIDs = []string{postingID}
		} else {
			refs.PostingIDs = nil
		}
	}

	if opp.Owner != nil {
		if userID, ok := m.resolver.ResolveUser(ctx, opp.Owner.Email); ok {
			refs.PerformAs = userID
		}
	}

	// Stage and archive reason translate in two steps: the static table maps
	// the source text to the target-side text, the resolver maps that text
	// to the target identifier.
	if opp.Stage != nil {
		if stageText, ok := m.tables.Stages.Lookup(opp.Stage.Text); ok {
			if stageID, ok := m.resolver.ResolveStage(ctx, stageText); ok {
				refs.StageID = stageID
			}
		}
	}

	if opp.Archived != nil {
		if reasonText, ok := m.tables.ArchiveReasons.Lookup(opp.Archived.Reason); ok {
			if reasonID, ok := m.resolver.ResolveArchiveReason(ctx, reasonText); ok {
				refs.ArchiveReasonID = reasonID
			}
		}
	}

	return refs
}
