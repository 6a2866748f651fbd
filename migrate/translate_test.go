package migrate

import (
	"reflect"
	"testing"

	"lever2lever/migrator/model"
)

func TestBuildPayloadFieldSet(t *testing.T) {
	opp := model.Opportunity{
		ID:        "opp-1",
		Name:      "Jane Doe",
		Headline:  "Acme Corp",
		Emails:    []string{"jane@example.com"},
		Phones:    []model.Phone{{Value: "555-0100"}, {Value: ""}},
		Links:     []string{"https://example.com/jane"},
		Tags:      []string{"senior"},
		Sources:   []string{"referral"},
		Origin:    "sourced",
		Archived:  &model.Archived{Reason: "Hired", ArchivedAt: 1700000000000},
		CreatedAt: 1690000000000,
	}
	refs := ResolvedRefs{
		PostingIDs:      []string{"post-t1"},
		StageID:         "stage-t1",
		ArchiveReasonID: "reason-t1",
	}

	expected := [][2]string{
		{"name", "Jane Doe"},
		{"headline", "Acme Corp"},
		{"emails[]", "jane@example.com"},
		{"phones[][value]", "555-0100"},
		{"links[]", "https://example.com/jane"},
		{"tags[]", "senior"},
		{"sources[]", "referral"},
		{"origin", "sourced"},
		{"stage", "stage-t1"},
		{"postings[]", "post-t1"},
		{"createdAt", "1690000000000"},
		{"archived[reason]", "reason-t1"},
		{"archived[archivedAt]", "1700000000000"},
	}

	if got := BuildPayload(opp, refs).Pairs(); !reflect.DeepEqual(got, expected) {
		t.Errorf("BuildPayload pairs = %v, want %v", got, expected)
	}
}

func TestBuildPayloadOmitsArchivedForActiveOpportunity(t *testing.T) {
	opp := model.Opportunity{Name: "Jane Doe"}

	for _, pair := range BuildPayload(opp, ResolvedRefs{ArchiveReasonID: "reason-t1"}).Pairs() {
		if pair[0] == "archived[reason]" || pair[0] == "archived[archivedAt]" {
			t.Errorf("Unexpected archived field %q on an active opportunity", pair[0])
		}
	}
}

func TestBuildPayloadOmitsUnresolvedReferences(t *testing.T) {
	opp := model.Opportunity{Name: "Jane Doe"}

	pairs := BuildPayload(opp, ResolvedRefs{}).Pairs()
	expected := [][2]string{{"name", "Jane Doe"}}
	if !reflect.DeepEqual(pairs, expected) {
		t.Errorf("BuildPayload pairs = %v, want name only", pairs)
	}
}
