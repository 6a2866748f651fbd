package leverapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestGetUsersDecodesEnvelopeAndAuthenticates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "test-key" || password != "" {
			t.Errorf("Expected basic auth with api key as username, got %q/%q", username, password)
		}
		if r.URL.Path != "/users" {
			t.Errorf("Expected path /users, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "a@x.com" {
			t.Errorf("Expected email filter a@x.com, got %s", got)
		}

		w.Write([]byte(`{"data":[{"id":"u1","name":"A","email":"a@x.com"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(nil, server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	users, err := client.GetUsers(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != "u1" || users[0].Email != "a@x.com" {
		t.Errorf("Unexpected users: %+v", users)
	}
}

func TestGetStagesRejectsUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(nil, server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.GetStages(context.Background()); err == nil {
		t.Error("Expected an error for a 403 response")
	}
}

func TestAddOpportunityWithMultipart(t *testing.T) {
	tmpDir := t.TempDir()
	resumePath := filepath.Join(tmpDir, "resume.pdf")
	if err := os.WriteFile(resumePath, []byte("resume-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write resume fixture: %v", err)
	}
	existingOther := filepath.Join(tmpDir, "cover-letter.pdf")
	if err := os.WriteFile(existingOther, []byte("cover-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write other file fixture: %v", err)
	}
	missingOther := filepath.Join(tmpDir, "never-downloaded.pdf")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("perform_as"); got != "u1" {
			t.Errorf("Expected perform_as u1, got %s", got)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.MultipartForm.Value["name"]; len(got) != 1 || got[0] != "Jane Doe" {
			t.Errorf("Expected name field, got %v", got)
		}
		if got := r.MultipartForm.File["resumeFile"]; len(got) != 1 || got[0].Filename != "resume.pdf" {
			t.Errorf("Expected one resumeFile part, got %v", got)
		}
		// The missing other file degrades to no part for that slot.
		if got := r.MultipartForm.File["files[]"]; len(got) != 1 || got[0].Filename != "cover-letter.pdf" {
			t.Errorf("Expected one files[] part, got %v", got)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"T1"}}`))
	}))
	defer server.Close()

	client, err := NewClient(nil, server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	payload := &Payload{}
	payload.AddScalar("name", "Jane Doe")

	resp, err := client.AddOpportunityWithMultipart(
		context.Background(),
		"u1",
		payload,
		resumePath,
		[]string{existingOther, missingOther},
	)
	if err != nil {
		t.Fatalf("AddOpportunityWithMultipart failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}

	created, err := ParseCreatedOpportunity(resp.Body)
	if err != nil {
		t.Fatalf("ParseCreatedOpportunity failed: %v", err)
	}
	if created.ID != "T1" {
		t.Errorf("Expected created id T1, got %s", created.ID)
	}
}

func TestAddNoteSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/opportunities/opp-1/notes" {
			t.Errorf("Expected notes path, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected json content type, got %s", got)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"n1"}}`))
	}))
	defer server.Close()

	client, err := NewClient(nil, server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	resp, err := client.AddNote(context.Background(), "opp-1", "Text -> hello", true)
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}

	note, err := ParseCreatedNote(resp.Body)
	if err != nil {
		t.Fatalf("ParseCreatedNote failed: %v", err)
	}
	if note.ID != "n1" {
		t.Errorf("Expected note id n1, got %s", note.ID)
	}
}

func TestDownloadResumeStreamsToFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/opportunities/opp-1/resumes/r1/download" {
			t.Errorf("Expected download path, got %s", r.URL.Path)
		}
		w.Write([]byte("resume-bytes"))
	}))
	defer server.Close()

	client, err := NewClient(nil, server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	destPath := filepath.Join(t.TempDir(), "resume.pdf")
	if err := client.DownloadResume(context.Background(), "opp-1", "r1", destPath); err != nil {
		t.Fatalf("DownloadResume failed: %v", err)
	}

	content, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(content) != "resume-bytes" {
		t.Errorf("Unexpected downloaded content: %s", content)
	}
}
