package handler

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docflow/internal/model"
	"docflow/internal/service"
	serviceMocks "docflow/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testAdmin = &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}
	testAlice = &model.User{ID: 2, Username: "alice", Role: model.RoleUser}
)

func newTestApp(authSvc service.AuthService, docSvc service.DocumentService) (*fiber.App, *session.Store) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	store := session.New()
	RegisterRoutes(app, nil, store, authSvc, docSvc)
	return app, store
}

// loginAs drives a real POST /login and returns the session cookie.
func loginAs(t *testing.T, app *fiber.App, mockAuth *serviceMocks.MockAuthService, user *model.User) *http.Cookie {
	t.Helper()

	mockAuth.On("Login", mock.Anything, user.Username, "secret").Return(user, nil).Once()

	form := strings.NewReader("username=" + user.Username + "&password=secret")
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	require.NotEmpty(t, resp.Cookies())

	// Subsequent requests resolve the session back to this user
	mockAuth.On("LoadUser", mock.Anything, user.ID).Return(user, nil)

	return resp.Cookies()[0]
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestLoginPage(t *testing.T) {
	app, _ := newTestApp(new(serviceMocks.MockAuthService), new(serviceMocks.MockDocumentService))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Sign in")
}

func TestLoginSubmit(t *testing.T) {
	t.Run("valid credentials establish a session", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		app, _ := newTestApp(mockAuth, new(serviceMocks.MockDocumentService))

		cookie := loginAs(t, app, mockAuth, testAlice)
		assert.NotEmpty(t, cookie.Value)
		mockAuth.AssertExpectations(t)
	})

	t.Run("invalid credentials re-render the form without a session", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockAuth.On("Login", mock.Anything, "alice", "wrong").
			Return(nil, service.ErrInvalidCredentials).Once()

		app, _ := newTestApp(mockAuth, new(serviceMocks.MockDocumentService))

		form := strings.NewReader("username=alice&password=wrong")
		req := httptest.NewRequest(http.MethodPost, "/login", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "Invalid username or password")
		assert.Empty(t, resp.Cookies())
		mockAuth.AssertExpectations(t)
	})
}

func TestHome(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		app, _ := newTestApp(new(serviceMocks.MockAuthService), new(serviceMocks.MockDocumentService))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("renders the document list", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("List", mock.Anything, "file_date", "desc").Return([]model.DocumentSummary{
			{ID: 1, Title: "Contract", FileName: "c.pdf", Status: model.StatusDraft, FileDate: time.Now(), Owner: "alice"},
		}, nil)

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := bodyString(t, resp)
		assert.Contains(t, body, "Contract")
		assert.Contains(t, body, "alice")
		assert.Contains(t, body, model.StatusDraft)
		mockDocs.AssertExpectations(t)
	})

	t.Run("forwards sort parameters verbatim", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("List", mock.Anything, "title", "asc").Return([]model.DocumentSummary{}, nil)

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/?sort_by=title&order=asc", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		mockDocs.AssertExpectations(t)
	})
}

func TestUpload(t *testing.T) {
	newUploadRequest := func(t *testing.T, title, fileName string, content []byte) *http.Request {
		t.Helper()
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("title", title))
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	t.Run("form renders", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		app, _ := newTestApp(mockAuth, new(serviceMocks.MockDocumentService))
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/upload", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "Upload document")
	})

	t.Run("successful upload redirects to the list", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("Upload", mock.Anything, "Contract", "c.pdf", []byte("%PDF-1.4"), testAlice.ID).
			Return(int64(5), nil).Once()

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := newUploadRequest(t, "Contract", "c.pdf", []byte("%PDF-1.4"))
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		mockDocs.AssertExpectations(t)
	})

	t.Run("disallowed extension bounces back to the form", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("Upload", mock.Anything, "Script", "evil.exe", mock.Anything, testAlice.ID).
			Return(int64(0), service.ErrExtensionNotAllowed).Once()

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := newUploadRequest(t, "Script", "evil.exe", []byte("MZ"))
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/upload", resp.Header.Get("Location"))

		// The notice shows on the next rendered form
		req = httptest.NewRequest(http.MethodGet, "/upload", nil)
		req.AddCookie(cookie)
		resp, _ = app.Test(req)
		assert.Contains(t, bodyString(t, resp), "This file type is not allowed")
	})

	t.Run("missing file bounces back without calling the service", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("title=Contract"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/upload", resp.Header.Get("Location"))
		mockDocs.AssertNotCalled(t, "Upload")
	})
}

func TestChangeStatus(t *testing.T) {
	t.Run("admin updates the status", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("ChangeStatus", mock.Anything, int64(5), "Approved").Return(nil).Once()

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAdmin)

		req := httptest.NewRequest(http.MethodGet, "/change_status/5/Approved", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		mockDocs.AssertExpectations(t)
	})

	t.Run("status with encoded space", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("ChangeStatus", mock.Anything, int64(5), "In Review").Return(nil).Once()

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAdmin)

		req := httptest.NewRequest(http.MethodGet, "/change_status/5/In%20Review", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		mockDocs.AssertExpectations(t)
	})

	t.Run("non-admin is rejected and nothing changes", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("List", mock.Anything, "file_date", "desc").Return([]model.DocumentSummary{}, nil)

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/change_status/5/Approved", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		mockDocs.AssertNotCalled(t, "ChangeStatus")

		// Permission notice shows on the list page
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		resp, _ = app.Test(req)
		assert.Contains(t, bodyString(t, resp), "Permission denied")
	})
}

func TestDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("Delete", mock.Anything, int64(5), testAlice).Return(nil).Once()

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/delete/5", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		mockDocs.AssertExpectations(t)
	})

	t.Run("permission denied", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("Delete", mock.Anything, int64(5), testAlice).
			Return(service.ErrPermissionDenied).Once()

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/delete/5", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		mockDocs.AssertExpectations(t)
	})
}

func TestDownload(t *testing.T) {
	t.Run("streams the stored bytes as attachment", func(t *testing.T) {
		content := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff, 0x01}
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("Download", mock.Anything, int64(5)).
			Return(&model.DocumentFile{FileName: "c.pdf", FileData: content}, nil).Once()

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/download/5", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "c.pdf")

		got, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		mockDocs.AssertExpectations(t)
	})

	t.Run("missing document redirects with a notice", func(t *testing.T) {
		mockAuth := new(serviceMocks.MockAuthService)
		mockDocs := new(serviceMocks.MockDocumentService)
		mockDocs.On("Download", mock.Anything, int64(99)).
			Return(nil, service.ErrNotFound).Once()
		mockDocs.On("List", mock.Anything, "file_date", "desc").Return([]model.DocumentSummary{}, nil)

		app, _ := newTestApp(mockAuth, mockDocs)
		cookie := loginAs(t, app, mockAuth, testAlice)

		req := httptest.NewRequest(http.MethodGet, "/download/99", nil)
		req.AddCookie(cookie)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		resp, _ = app.Test(req)
		assert.Contains(t, bodyString(t, resp), "Document not found")
	})
}

func TestLogout(t *testing.T) {
	mockAuth := new(serviceMocks.MockAuthService)
	app, _ := newTestApp(mockAuth, new(serviceMocks.MockDocumentService))
	cookie := loginAs(t, app, mockAuth, testAlice)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// The old session no longer grants access
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	resp, _ = app.Test(req)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestErrorPages(t *testing.T) {
	app, _ := newTestApp(new(serviceMocks.MockAuthService), new(serviceMocks.MockDocumentService))

	t.Run("unknown route renders the error page", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "Page not found")
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/healthz", nil))

		assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "Method not allowed")
	})
}
