package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dropzone/internal/domain/dto"
	"dropzone/internal/infrastructure/queue"
	infra_repo "dropzone/internal/infrastructure/repositories"
	"dropzone/internal/infrastructure/storage"
	"dropzone/internal/usecases"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := storage.NewLocalStorage(t.TempDir())
	sessions := infra_repo.NewInMemorySessionRepository()
	links := infra_repo.NewInMemoryLinkRepository()
	files := infra_repo.NewInMemoryFileRepository()

	manager := usecases.NewSessionManager(
		sessions, store, usecases.NewChunkAssembler(store), files,
		&queue.InlineReleaser{Store: store}, queue.NopEventPublisher{},
		usecases.SessionPolicy{MaxFileSize: 1 << 20},
	)
	coordinator := usecases.NewCoordinator(manager, 0)
	registry := usecases.NewLinkRegistry(links, files, time.Hour)
	fileService := usecases.NewFileService(files, links, store, &queue.InlineReleaser{Store: store})

	app := fiber.New()
	Setup(app, coordinator, registry, fileService)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

func putChunk(t *testing.T, app *fiber.App, sessionID string, start, end int, body []byte) *http.Response {
	t.Helper()
	path := fmt.Sprintf("/api/v1/sessions/%s/chunks?start=%d&end=%d", sessionID, start, end)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	content := []byte("the quick brown fox jumps over the lazy dog")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/sessions", dto.CreateSessionRequest{
		FileName:     "fox.txt",
		DeclaredSize: int64(len(content)),
		DeclaredType: "text/plain",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CreateSessionResponse](t, resp)
	require.NotEmpty(t, created.SessionID)

	// second half first
	resp = putChunk(t, app, created.SessionID, 20, len(content), content[20:])
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[dto.ProgressSnapshot](t, resp)
	assert.Less(t, snap.Progress, 1.0)

	// an overlapping range is refused without losing progress
	resp = putChunk(t, app, created.SessionID, 10, 30, content[10:30])
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// finalize before full coverage is a conflict
	resp = doJSON(t, app, http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/finalize", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = putChunk(t, app, created.SessionID, 0, 20, content[:20])
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[dto.ProgressSnapshot](t, resp)
	assert.InDelta(t, 1.0, snap.Progress, 1e-9)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/sessions/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[dto.SessionStatusResponse](t, resp)
	assert.Empty(t, status.Missing)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/finalize", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	finalized := decode[dto.FinalizeResponse](t, resp)
	require.NotEmpty(t, finalized.FileID)

	// the stored file is downloadable byte for byte
	resp = doJSON(t, app, http.MethodGet, "/api/v1/files/"+finalized.FileID+"/download", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestShareLinkFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	content := []byte("shared file body")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/sessions", dto.CreateSessionRequest{
		FileName:     "shared.bin",
		DeclaredSize: int64(len(content)),
	})
	created := decode[dto.CreateSessionResponse](t, resp)
	resp = putChunk(t, app, created.SessionID, 0, len(content), content)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/finalize", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	finalized := decode[dto.FinalizeResponse](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/links", dto.IssueLinkRequest{FileID: finalized.FileID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	link := decode[dto.ShareLinkResponse](t, resp)
	require.NotEmpty(t, link.ShortToken)

	// issuing twice yields the same live token
	resp = doJSON(t, app, http.MethodPost, "/api/v1/links", dto.IssueLinkRequest{FileID: finalized.FileID})
	again := decode[dto.ShareLinkResponse](t, resp)
	assert.Equal(t, link.ShortToken, again.ShortToken)

	// resolving redirects at the download endpoint
	resp = doJSON(t, app, http.MethodGet, "/api/v1/links/"+link.ShortToken, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/v1/files/"+finalized.FileID+"/download", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/links/"+link.ShortToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/links/"+link.ShortToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHTTPErrorStatuses(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/sessions", dto.CreateSessionRequest{
		FileName:     "huge.bin",
		DeclaredSize: 2 << 20,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "policy_violation", body.Error)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/sessions/no-such-id", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = putChunk(t, app, "no-such-id", 0, 4, []byte("abcd"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/files/no-such-id", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// non-numeric offsets never reach the coordinator
	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/x/chunks?start=abc&end=4", bytes.NewReader([]byte("ab")))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSessionAbortOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/sessions", dto.CreateSessionRequest{
		FileName:     "a.bin",
		DeclaredSize: 10,
	})
	created := decode[dto.CreateSessionResponse](t, resp)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/sessions/"+created.SessionID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// chunks after abort are refused
	resp = putChunk(t, app, created.SessionID, 0, 4, []byte("abcd"))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}
