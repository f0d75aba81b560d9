package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// signingLogPath is the resource path relative to the API base URL.
const signingLogPath = "signinglog"

// ErrInvalidEntryID is returned by Delete for an id that cannot address an entry.
var ErrInvalidEntryID = errors.New("invalid signing log id")

// Transport issues the HTTP calls of the signing log client. *Client implements it.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values) (*http.Response, error)
	Delete(ctx context.Context, path string, body any) (*http.Response, error)
}

// LogEntry is anything that can be addressed by a signing log id.
type LogEntry interface {
	LogID() string
}

// EmptyBody is the payload sent with a delete. It encodes as {}.
type EmptyBody struct{}

// SigningLog is a signing log entry as returned by the server.
type SigningLog struct {
	ID           int       `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	SerialNumber string    `json:"serialnumber"`
	Fingerprint  string    `json:"fingerprint"`
	Revision     int       `json:"revision"`
	Created      time.Time `json:"created"`
}

// LogID implements LogEntry.
func (l SigningLog) LogID() string {
	return strconv.Itoa(l.ID)
}

// EntryID is a bare signing log id.
type EntryID string

// LogID implements LogEntry.
func (id EntryID) LogID() string {
	return string(id)
}

// CursorFromID converts a numeric id into a list cursor. Ids that are not
// positive yield the empty cursor, which requests the first page.
func CursorFromID(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}

// SigningLogClient lists and deletes signing log entries.
type SigningLogClient struct {
	transport Transport
}

// NewSigningLogClient creates a client issuing its calls through t.
func NewSigningLogClient(t Transport) *SigningLogClient {
	return &SigningLogClient{transport: t}
}

// List fetches a page of entries. An empty fromID requests the first page;
// otherwise it is sent unchanged as the fromID query parameter.
func (c *SigningLogClient) List(ctx context.Context, fromID string) (*http.Response, error) {
	query := url.Values{}
	if fromID != "" {
		query.Set("fromID", fromID)
	}
	return c.transport.Get(ctx, signingLogPath, query)
}

// Delete removes the given entry. Ids that would not name a single path
// segment below the resource ("", "." and "..") are rejected with ErrInvalidEntryID.
func (c *SigningLogClient) Delete(ctx context.Context, entry LogEntry) (*http.Response, error) {
	id := entry.LogID()
	switch id {
	case "", ".", "..":
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryID, id)
	}
	path := signingLogPath + "/" + url.PathEscape(id)
	return c.transport.Delete(ctx, path, EmptyBody{})
}

// SigningLogResponse is the envelope returned by the signinglog resource.
type SigningLogResponse struct {
	Success      bool         `json:"success"`
	ErrorCode    string       `json:"error_code"`
	ErrorSubcode string       `json:"error_subcode"`
	Message      string       `json:"message"`
	Logs         []SigningLog `json:"logs"`
}

// DecodeResponse reads and closes resp's body. An envelope reporting
// failure is returned as a *StatusError.
func DecodeResponse(resp *http.Response) (*SigningLogResponse, error) {
	defer resp.Body.Close()

	var out SigningLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !out.Success {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Code:       out.ErrorCode,
			Subcode:    out.ErrorSubcode,
			Message:    out.Message,
		}
	}
	return &out, nil
}

// DecodeSigningLogs decodes the entries of a list response.
func DecodeSigningLogs(resp *http.Response) ([]SigningLog, error) {
	out, err := DecodeResponse(resp)
	if err != nil {
		return nil, err
	}
	return out.Logs, nil
}
