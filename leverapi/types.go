package leverapi

// User is a member of the target tenant, matched by email during owner
// resolution.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Stage is a pipeline stage of the target tenant, matched by text.
type Stage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ArchiveReason is an archive reason of the target tenant, matched by text.
type ArchiveReason struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CreatedOpportunity is the creation result returned on HTTP 201.
type CreatedOpportunity struct {
	ID string `json:"id"`
}

// CreatedNote is the note creation result returned on HTTP 201.
type CreatedNote struct {
	ID string `json:"id"`
}

// userListEnvelope wraps the /users collection response.
type userListEnvelope struct {
	Data []User `json:"data"`
}

// stageListEnvelope wraps the /stages collection response.
type stageListEnvelope struct {
	Data []Stage `json:"data"`
}

// archiveReasonListEnvelope wraps the /archive_reasons collection response.
type archiveReasonListEnvelope struct {
	Data []ArchiveReason `json:"data"`
}

// createdOpportunityEnvelope wraps a single created opportunity.
type createdOpportunityEnvelope struct {
	Data CreatedOpportunity `json:"data"`
}

// createdNoteEnvelope wraps a single created note.
type createdNoteEnvelope struct {
	Data CreatedNote `json:"data"`
}
