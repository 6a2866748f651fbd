package model

import "time"

// Record is one source-tenant opportunity staged for migration, as stored in
// the leverData collection. Sync fields are mutated by the migrator after
// each attempt; everything else is read-only during a run.
type Record struct {
	ID               int64       `bson:"_id"`
	OppLeverID       string      `bson:"oppLeverId"`
	RecordData       Opportunity `bson:"recordData"`
	Resumes          []Resume    `bson:"resumes,omitempty"`
	Offers           []Offer     `bson:"offers,omitempty"`
	OtherFiles       []File      `bson:"otherFiles,omitempty"`
	ProfileForms     []Form      `bson:"profileForms,omitempty"`
	FeedbackForms    []Form      `bson:"feedbackForms,omitempty"`
	Notes            []Note      `bson:"notes,omitempty"`
	ResumeURLs       []string    `bson:"resumeUrl,omitempty"`
	OtherFileURLs    []string    `bson:"otherFileUrls,omitempty"`
	IsSynced         bool        `bson:"isSynced"`
	HasError         bool        `bson:"hasError"`
	FailureLog       string      `bson:"failureLog,omitempty"`
	TargetOppLeverID string      `bson:"targetOppLeverId,omitempty"`
	NoteID           string      `bson:"noteId,omitempty"`
	MigrateDate      time.Time   `bson:"migrateDate,omitempty"`
}

// Opportunity is the raw opportunity payload captured from the source tenant.
type Opportunity struct {
	ID           string        `bson:"id" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Headline     string        `bson:"headline,omitempty" json:"headline,omitempty"`
	Emails       []string      `bson:"emails,omitempty" json:"emails,omitempty"`
	Phones       []Phone       `bson:"phones,omitempty" json:"phones,omitempty"`
	Links        []string      `bson:"links,omitempty" json:"links,omitempty"`
	Tags         []string      `bson:"tags,omitempty" json:"tags,omitempty"`
	Sources      []string      `bson:"sources,omitempty" json:"sources,omitempty"`
	Origin       string        `bson:"origin,omitempty" json:"origin,omitempty"`
	Owner        *Owner        `bson:"owner,omitempty" json:"owner,omitempty"`
	Stage        *Stage        `bson:"stage,omitempty" json:"stage,omitempty"`
	Archived     *Archived     `bson:"archived,omitempty" json:"archived,omitempty"`
	Applications []Application `bson:"applications,omitempty" json:"applications,omitempty"`
	CreatedAt    int64         `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Phone is one phone entry; the creation API takes the value only.
type Phone struct {
	Value string `bson:"value" json:"value"`
}

// Owner is the source-tenant user owning the opportunity.
type Owner struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Email string `bson:"email" json:"email"`
}

// Stage is the pipeline stage the opportunity currently sits in.
type Stage struct {
	Text string `bson:"text" json:"text"`
}

// Archived holds the archive reason text and timestamp for archived
// opportunities.
type Archived struct {
	Reason     string `bson:"reason" json:"reason"`
	ArchivedAt int64  `bson:"archivedAt" json:"archivedAt"`
}

// Application links the opportunity to a job posting by posting name.
type Application struct {
	Posting string `bson:"posting" json:"posting"`
}

// Resume references a resume file stored in the source tenant.
type Resume struct {
	ID   string     `bson:"id" json:"id"`
	File ResumeFile `bson:"file" json:"file"`
}

// ResumeFile is the declared file metadata of a resume.
type ResumeFile struct {
	Name string `bson:"name" json:"name"`
}

// Offer references a signed offer document stored in the source tenant.
type Offer struct {
	ID             string `bson:"id" json:"id"`
	SignedDocument string `bson:"signedDocument" json:"signedDocument"`
}

// File references any other file attached to the opportunity.
type File struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Form is a profile or feedback form captured from the source tenant.
type Form struct {
	Fields []FormField `bson:"fields,omitempty" json:"fields,omitempty"`
}

// FormField is one free-text entry of a form.
type FormField struct {
	Text        string `bson:"text,omitempty" json:"text,omitempty"`
	Value       string `bson:"value,omitempty" json:"value,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Note is an existing note on the source opportunity.
type Note struct {
	Fields []NoteField `bson:"fields,omitempty" json:"fields,omitempty"`
}

// NoteField is one text entry of a note.
type NoteField struct {
	Value string `bson:"value,omitempty" json:"value,omitempty"`
}
