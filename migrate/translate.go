package migrate

import (
	"strconv"

	"lever2lever/migrator/leverapi"
	"lever2lever/migrator/model"
)

// ResolvedRefs holds the per-record outcome of cross-tenant reference
// translation. Empty fields mean the mapping stayed unresolved and the
// corresponding payload field is omitted.
type ResolvedRefs struct {
	PostingIDs      []string
	StageID         string
	ArchiveReasonID string
	PerformAs       string
}

// BuildPayload assembles the target-tenant creation payload from one source
// opportunity plus its resolved references. Fields without a value are left
// out of the payload entirely.
func BuildPayload(opp model.Opportunity, refs ResolvedRefs) *leverapi.Payload {
	payload := &leverapi.Payload{}

	payload.AddScalar("name", opp.Name)
	payload.AddScalar("headline", opp.Headline)
	payload.AddRepeated("emails", opp.Emails)
	payload.AddPhones(phoneValues(opp.Phones))
	payload.AddRepeated("links", opp.Links)
	payload.AddRepeated("tags", opp.Tags)
	payload.AddRepeated("sources", opp.Sources)
	payload.AddScalar("origin", opp.Origin)
	payload.AddScalar("stage", refs.StageID)
	payload.AddRepeated("postings", refs.PostingIDs)
	if opp.CreatedAt > 0 {
		payload.AddScalar("createdAt", strconv.FormatInt(opp.CreatedAt, 10))
	}

	// The archived field only applies to archived opportunities and is
	// serialized as the reason/timestamp sub-field pair.
	if opp.Archived != nil {
		payload.AddArchived(refs.ArchiveReasonID, opp.Archived.ArchivedAt)
	}

	return payload
}

func phoneValues(phones []model.Phone) []string {
	var values []string
	for _, phone := range phones {
		if phone.Value != "" {
			values = append(values, phone.Value)
		}
	}

	return values
}
