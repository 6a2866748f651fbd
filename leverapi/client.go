// Package leverapi provides methods to send HTTP requests to one tenant of
// the Lever API. Each client is bound to a single tenant credential; the
// migration runs with two clients, one per tenant.
package leverapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"lever2lever/migrator/appcontext"
)

var errHTTPUnexpectedStatusCode = errors.New("unexpected http status code")
var errHTTPBaseURLFormatting = errors.New("error formatting lever base url")
var errHTTPBodyUnmarshall = errors.New("error unmarshalling http response body")
var errHTTPBodyClose = errors.New("error closing io stream for http response body")

// HTTPUnexpectedStatusCodeError is an error wrapper.
func HTTPUnexpectedStatusCodeError(statusCode int) error {
	return fmt.Errorf("%w, %d", errHTTPUnexpectedStatusCode, statusCode)
}

func HTTPBaseURLFormattingError(baseURL string) error {
	return fmt.Errorf("%w, %s", errHTTPBaseURLFormatting, baseURL)
}

func HTTPBodyUnmarshallError(baseErr error) error {
	return fmt.Errorf("%w, %w", errHTTPBodyUnmarshall, baseErr)
}

func HTTPBodyCloseError(baseErr error) error {
	return fmt.Errorf("%w, %w", errHTTPBodyClose, baseErr)
}

// Client manages all endpoints of one Lever tenant. The API key is sent as
// the basic-auth username with an empty password.
type Client struct {
	// a pointer to the http client to use.
	HTTPClient *http.Client
	// the base url all request paths are resolved against.
	BaseURL *url.URL

	apiKey string
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new Client for one tenant endpoint.
func NewClient(httpClient *http.Client, baseURL string, apiKey string) (*Client, error) {
	// Use a default http client if none is provided.
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, HTTPBaseURLFormattingError(baseURL)
	}

	return &Client{
		HTTPClient: httpClient,
		BaseURL:    parsed,
		apiKey:     apiKey,
		sleep:      sleepContext,
	}, nil
}

// endpoint joins the base URL with a request path and optional query values.
func (c *Client) endpoint(path string, query url.Values) string {
	// Construct the full URL by combining the base path with the endpoint path.
	requestURL := c.BaseURL.String() + path
	if query != nil {
		requestURL += "?" + query.Encode()
	}

	return requestURL
}

// GetUsers lists the tenant users matching an email filter.
func (c *Client) GetUsers(ctx context.Context, email string) ([]User, error) {
	query := url.Values{}
	query.Add("email", email)

	resp, err := c.execute(ctx, http.MethodGet, c.endpoint("/users", query), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, HTTPUnexpectedStatusCodeError(resp.StatusCode)
	}

	var result userListEnvelope
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, HTTPBodyUnmarshallError(err)
	}

	return result.Data, nil
}

// GetStages lists all pipeline stages of the tenant.
func (c *Client) GetStages(ctx context.Context) ([]Stage, error) {
	resp, err := c.execute(ctx, http.MethodGet, c.endpoint("/stages", nil), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, HTTPUnexpectedStatusCodeError(resp.StatusCode)
	}

	var result stageListEnvelope
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, HTTPBodyUnmarshallError(err)
	}

	return result.Data, nil
}

// GetArchiveReasons lists all archive reasons of the tenant.
func (c *Client) GetArchiveReasons(ctx context.Context) ([]ArchiveReason, error) {
	resp, err := c.execute(ctx, http.MethodGet, c.endpoint("/archive_reasons", nil), "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, HTTPUnexpectedStatusCodeError(resp.StatusCode)
	}

	var result archiveReasonListEnvelope
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, HTTPBodyUnmarshallError(err)
	}

	return result.Data, nil
}

// AddOpportunityWithMultipart submits the creation payload for one
// opportunity, attaching at most one resume file plus any other files that
// still exist on disk. A staged path missing on disk degrades to no file for
// that slot rather than failing the submission. The raw response is handed
// back so the caller can record the body verbatim on failure.
func (c *Client) AddOpportunityWithMultipart(
	ctx context.Context,
	performAs string,
	payload *Payload,
	resumeFile string,
	otherFiles []string,
) (*Response, error) {
	logger := appcontext.LoggerFromContext(ctx)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := payload.encode(writer); err != nil {
		return nil, err
	}

	for _, filePath := range otherFiles {
		if err := attachFile(writer, "files[]", filePath); err != nil {
			logger.WarnContext(ctx, "Skipping missing other file", "path", filePath, "error", err)
		}
	}

	if resumeFile != "" {
		if err := attachFile(writer, "resumeFile", resumeFile); err != nil {
			logger.WarnContext(ctx, "Skipping missing resume file", "path", resumeFile, "error", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	query := url.Values{}
	query.Add("perform_as", performAs)

	return c.execute(
		ctx,
		http.MethodPost,
		c.endpoint("/opportunities", query),
		writer.FormDataContentType(),
		body.Bytes(),
	)
}

// AddNote creates a note on an opportunity in this tenant.
func (c *Client) AddNote(ctx context.Context, oppID string, note string, secret bool) (*Response, error) {
	payload, err := json.Marshal(map[string]any{"value": note, "secret": secret})
	if err != nil {
		return nil, fmt.Errorf("error marshaling note body: %w", err)
	}

	return c.execute(
		ctx,
		http.MethodPost,
		c.endpoint("/opportunities/"+url.PathEscape(oppID)+"/notes", nil),
		"application/json",
		payload,
	)
}

// DownloadResume streams one resume file to a local path.
func (c *Client) DownloadResume(ctx context.Context, oppID string, resumeID string, destPath string) error {
	path := fmt.Sprintf("/opportunities/%s/resumes/%s/download", url.PathEscape(oppID), url.PathEscape(resumeID))
	return c.download(ctx, c.endpoint(path, nil), destPath)
}

// DownloadOfferFile streams one signed offer document to a local path.
func (c *Client) DownloadOfferFile(ctx context.Context, oppID string, offerID string, destPath string) error {
	path := fmt.Sprintf("/opportunities/%s/offers/%s/download", url.PathEscape(oppID), url.PathEscape(offerID))
	return c.download(ctx, c.endpoint(path, nil), destPath)
}

// DownloadFile streams one other file to a local path.
func (c *Client) DownloadFile(ctx context.Context, oppID string, fileID string, destPath string) error {
	path := fmt.Sprintf("/opportunities/%s/files/%s/download", url.PathEscape(oppID), url.PathEscape(fileID))
	return c.download(ctx, c.endpoint(path, nil), destPath)
}

// ParseCreatedOpportunity decodes the creation response body.
func ParseCreatedOpportunity(body []byte) (*CreatedOpportunity, error) {
	var result createdOpportunityEnvelope
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, HTTPBodyUnmarshallError(err)
	}

	return &result.Data, nil
}

// ParseCreatedNote decodes the note creation response body.
func ParseCreatedNote(body []byte) (*CreatedNote, error) {
	var result createdNoteEnvelope
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, HTTPBodyUnmarshallError(err)
	}

	return &result.Data, nil
}

// attachFile adds one file part to the multipart body, reading the staged
// file from disk.
func attachFile(writer *multipart.Writer, fieldName string, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open staged file %s: %w", filePath, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile(fieldName, filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", fieldName, err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy staged file %s: %w", filePath, err)
	}

	return nil
}
