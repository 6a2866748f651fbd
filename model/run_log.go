package model

import "time"

// RunLog represents one migration run summary in the migrationRuns collection.
type RunLog struct {
	RunID        string    `bson:"runId"`
	StartedAt    time.Time `bson:"startedAt"`
	FinishedAt   time.Time `bson:"finishedAt"`
	Processed    int       `bson:"processed"`
	Created      int       `bson:"created"`
	Failed       int       `bson:"failed"`
	NotesCreated int       `bson:"notesCreated"`
}
