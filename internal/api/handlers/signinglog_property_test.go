package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	apierrors "github.com/narvanalabs/signing-vault/internal/api/errors"
	"github.com/narvanalabs/signing-vault/internal/models"
	"github.com/narvanalabs/signing-vault/internal/store"
)

// mockSigningLogStore implements store.SigningLogStore in memory.
type mockSigningLogStore struct {
	mu      sync.Mutex
	entries map[int]*models.SigningLog
	nextID  int
	err     error
}

func newMockSigningLogStore(n int) *mockSigningLogStore {
	m := &mockSigningLogStore{entries: make(map[int]*models.SigningLog), nextID: 1}
	for i := 0; i < n; i++ {
		m.Create(context.Background(), &models.SigningLog{
			Make:         "canonical",
			Model:        "pi3",
			SerialNumber: fmt.Sprintf("A%03d", i+1),
			Fingerprint:  fmt.Sprintf("fp%d", i+1),
		})
	}
	return m
}

func (m *mockSigningLogStore) List(ctx context.Context, fromID, limit int) ([]*models.SigningLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	var out []*models.SigningLog
	for id, e := range m.entries {
		if fromID > 0 && id >= fromID {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockSigningLogStore) Get(ctx context.Context, id int) (*models.SigningLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockSigningLogStore) Create(ctx context.Context, entry *models.SigningLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.ID = m.nextID
	entry.Created = time.Now().UTC()
	m.nextID++
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockSigningLogStore) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.entries[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// mockStore implements store.Store for testing.
type mockStore struct {
	signingLogs *mockSigningLogStore
}

func (m *mockStore) SigningLogs() store.SigningLogStore                          { return m.signingLogs }
func (m *mockStore) WithTx(ctx context.Context, fn func(store.Store) error) error { return fn(m) }
func (m *mockStore) Ping(ctx context.Context) error                              { return nil }
func (m *mockStore) Close() error                                                { return nil }

func newTestRouter(st store.Store, pageSize int) http.Handler {
	h := NewSigningLogHandler(st, pageSize, slog.Default())
	r := chi.NewRouter()
	r.Route("/1.0/signinglog", func(r chi.Router) {
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func sendSigningLogRequest(t *testing.T, router http.Handler, method, url string, body io.Reader) (int, SigningLogResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, body)
	router.ServeHTTP(rec, req)

	var resp SigningLogResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding the signing log response: %v", err)
	}
	return rec.Code, resp
}

func TestSigningLogList(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantCount int
		wantFirst int
	}{
		{name: "no cursor", url: "/1.0/signinglog", wantCount: 10, wantFirst: 10},
		{name: "cursor", url: "/1.0/signinglog?fromID=5", wantCount: 4, wantFirst: 4},
		{name: "non numeric cursor is ignored", url: "/1.0/signinglog?fromID=bad", wantCount: 10, wantFirst: 10},
		{name: "zero cursor is ignored", url: "/1.0/signinglog?fromID=0", wantCount: 10, wantFirst: 10},
		{name: "cursor below all ids", url: "/1.0/signinglog?fromID=1", wantCount: 0},
	}

	router := newTestRouter(&mockStore{signingLogs: newMockSigningLogStore(10)}, 50)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := sendSigningLogRequest(t, router, http.MethodGet, tt.url, nil)
			if code != http.StatusOK {
				t.Fatalf("expected 200, got %d", code)
			}
			if !resp.Success {
				t.Error("expected success, got error")
			}
			if len(resp.SigningLog) != tt.wantCount {
				t.Fatalf("expected %d signing logs, got %d", tt.wantCount, len(resp.SigningLog))
			}
			if tt.wantCount > 0 && resp.SigningLog[0].ID != tt.wantFirst {
				t.Errorf("expected first id %d, got %d", tt.wantFirst, resp.SigningLog[0].ID)
			}
		})
	}
}

func TestSigningLogListError(t *testing.T) {
	ms := newMockSigningLogStore(3)
	ms.err = errors.New("connection refused")
	router := newTestRouter(&mockStore{signingLogs: ms}, 50)

	code, resp := sendSigningLogRequest(t, router, http.MethodGet, "/1.0/signinglog", nil)
	if code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", code)
	}
	if resp.Success {
		t.Error("expected error, got success")
	}
	if resp.ErrorCode != apierrors.CodeFetchSigningLog {
		t.Errorf("expected error code %q, got %q", apierrors.CodeFetchSigningLog, resp.ErrorCode)
	}
	if resp.SigningLog == nil {
		t.Error("expected an empty logs list on error, got null")
	}
}

func TestSigningLogDelete(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		storeErr    error
		wantCode    int
		wantSuccess bool
		wantErrCode string
	}{
		{name: "existing entry", url: "/1.0/signinglog/1", wantCode: http.StatusOK, wantSuccess: true},
		{name: "unknown id", url: "/1.0/signinglog/22", wantCode: http.StatusNotFound, wantErrCode: apierrors.CodeInvalidSigningLog},
		{name: "overflowing id", url: "/1.0/signinglog/99999999999999999999999999999999999999999999999", wantCode: http.StatusBadRequest, wantErrCode: apierrors.CodeInvalidSigningLog},
		{name: "non numeric id", url: "/1.0/signinglog/abc", wantCode: http.StatusBadRequest, wantErrCode: apierrors.CodeInvalidSigningLog},
		{name: "store failure", url: "/1.0/signinglog/1", storeErr: errors.New("disk full"), wantCode: http.StatusInternalServerError, wantErrCode: apierrors.CodeDeletingSigningLog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newMockSigningLogStore(10)
			ms.err = tt.storeErr
			router := newTestRouter(&mockStore{signingLogs: ms}, 50)

			code, resp := sendSigningLogRequest(t, router, http.MethodDelete, tt.url, bytes.NewBufferString("{}"))
			if code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, code)
			}
			if resp.Success != tt.wantSuccess {
				t.Errorf("expected success=%v, got %v", tt.wantSuccess, resp.Success)
			}
			if resp.ErrorCode != tt.wantErrCode {
				t.Errorf("expected error code %q, got %q", tt.wantErrCode, resp.ErrorCode)
			}
		})
	}
}

func TestSigningLogDeleteRemovesEntry(t *testing.T) {
	ms := newMockSigningLogStore(3)
	router := newTestRouter(&mockStore{signingLogs: ms}, 50)

	sendSigningLogRequest(t, router, http.MethodDelete, "/1.0/signinglog/2", nil)

	_, resp := sendSigningLogRequest(t, router, http.MethodGet, "/1.0/signinglog", nil)
	if len(resp.SigningLog) != 2 {
		t.Fatalf("expected 2 entries after delete, got %d", len(resp.SigningLog))
	}
	for _, e := range resp.SigningLog {
		if e.ID == 2 {
			t.Error("deleted entry is still listed")
		}
	}
}

// TestPropertyPagesAreBoundedAndBelowCursor checks every page against the cursor and page size.
func TestPropertyPagesAreBoundedAndBelowCursor(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("listed ids are descending, below fromID and at most pageSize", prop.ForAll(
		func(total, fromID, pageSize int) bool {
			router := newTestRouter(&mockStore{signingLogs: newMockSigningLogStore(total)}, pageSize)

			url := "/1.0/signinglog"
			if fromID > 0 {
				url = fmt.Sprintf("%s?fromID=%d", url, fromID)
			}
			code, resp := sendSigningLogRequest(t, router, http.MethodGet, url, nil)
			if code != http.StatusOK || !resp.Success {
				return false
			}
			if len(resp.SigningLog) > pageSize {
				t.Logf("page of %d exceeds size %d", len(resp.SigningLog), pageSize)
				return false
			}
			for i, e := range resp.SigningLog {
				if fromID > 0 && e.ID >= fromID {
					t.Logf("id %d not below cursor %d", e.ID, fromID)
					return false
				}
				if i > 0 && resp.SigningLog[i-1].ID <= e.ID {
					t.Logf("ids not descending at %d", i)
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 60),
		gen.IntRange(0, 70),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
