package migrate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"lever2lever/migrator/appcontext"
	"lever2lever/migrator/leverapi"
	"lever2lever/migrator/model"
)

var newlineStripper = strings.NewReplacer("\r", "", "\n", "")

// CollectNoteLines flattens the record's profile-form fields, feedback-form
// fields, and existing note values into the list of note bodies to replicate
// onto the created target record.
func CollectNoteLines(record *model.Record) []string {
	var lines []string

	for _, form := range record.ProfileForms {
		for _, field := range form.Fields {
			lines = append(lines, renderFormField(field))
		}
	}

	for _, form := range record.FeedbackForms {
		for _, field := range form.Fields {
			lines = append(lines, renderFormField(field))
		}
	}

	for _, note := range record.Notes {
		for _, field := range note.Fields {
			if field.Value != "" {
				lines = append(lines, newlineStripper.Replace(field.Value))
			}
		}
	}

	return lines
}

// renderFormField serializes one form field as a single newline-free line.
func renderFormField(field model.FormField) string {
	body := fmt.Sprintf("Text -> %s; Value -> %s; Description -> %s", field.Text, field.Value, field.Description)
	return newlineStripper.Replace(body)
}

// replicateNotes submits each collected line as a separate secret note
// against the newly created target record. A note failure is logged per note
// and neither rolls back the created record nor aborts remaining notes.
func (m *Migrator) replicateNotes(ctx context.Context, record *model.Record, stats *Stats) {
	logger := appcontext.LoggerFromContext(ctx)

	created := 0
	for _, line := range CollectNoteLines(record) {
		resp, err := m.target.AddNote(ctx, record.TargetOppLeverID, line, true)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to create note",
				"oppId", record.OppLeverID, "targetId", record.TargetOppLeverID, "error", err)
			continue
		}
		if resp.StatusCode != http.StatusCreated {
			logger.ErrorContext(ctx, "Failed to create note",
				"oppId", record.OppLeverID,
				"targetId", record.TargetOppLeverID,
				"status", resp.StatusCode,
				"response", string(resp.Body),
			)
			continue
		}

		note, parseErr := leverapi.ParseCreatedNote(resp.Body)
		if parseErr == nil && note.ID != "" {
			record.NoteID = note.ID
		}
		created++
	}

	if created > 0 {
		stats.AddNotes(created)
		logger.InfoContext(ctx, "Created notes successfully",
			"targetId", record.TargetOppLeverID, "notes", created)
	}
}
