package migrate

import (
	"reflect"
	"testing"

	"lever2lever/migrator/model"
)

func TestCollectNoteLinesOrderingAndRendering(t *testing.T) {
	record := &model.Record{
		ProfileForms: []model.Form{
			{Fields: []model.FormField{
				{Text: "Current company", Value: "Acme", Description: "Where they work"},
			}},
		},
		FeedbackForms: []model.Form{
			{Fields: []model.FormField{
				{Text: "Verdict", Value: "Strong hire", Description: ""},
			}},
		},
		Notes: []model.Note{
			{Fields: []model.NoteField{{Value: "Followed up by phone"}}},
		},
	}

	expected := []string{
		"Text -> Current company; Value -> Acme; Description -> Where they work",
		"Text -> Verdict; Value -> Strong hire; Description -> ",
		"Followed up by phone",
	}

	if got := CollectNoteLines(record); !reflect.DeepEqual(got, expected) {
		t.Errorf("CollectNoteLines = %v, want %v", got, expected)
	}
}

func TestCollectNoteLinesStripsNewlines(t *testing.T) {
	record := &model.Record{
		ProfileForms: []model.Form{
			{Fields: []model.FormField{{Text: "Summary", Value: "line one\r\nline two"}}},
		},
		Notes: []model.Note{
			{Fields: []model.NoteField{{Value: "first\nsecond"}}},
		},
	}

	expected := []string{
		"Text -> Summary; Value -> line oneline two; Description -> ",
		"firstsecond",
	}

	if got := CollectNoteLines(record); !reflect.DeepEqual(got, expected) {
		t.Errorf("CollectNoteLines = %v, want %v", got, expected)
	}
}

func TestCollectNoteLinesSkipsEmptyNoteFields(t *testing.T) {
	record := &model.Record{
		Notes: []model.Note{
			{Fields: []model.NoteField{{Value: ""}, {Value: "kept"}}},
		},
	}

	if got := CollectNoteLines(record); !reflect.DeepEqual(got, []string{"kept"}) {
		t.Errorf("CollectNoteLines = %v, want [kept]", got)
	}
}
