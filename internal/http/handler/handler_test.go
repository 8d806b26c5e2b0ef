package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docexchange/internal/errs"
	"docexchange/internal/http/middleware"
	"docexchange/internal/model"
	"docexchange/internal/policy"
	"docexchange/internal/service"
	serviceMocks "docexchange/internal/service/mocks"
)

const (
	opsToken    = "ops-token"
	clientToken = "client-token"
)

type testEnv struct {
	app      *fiber.App
	accounts *serviceMocks.MockAccountService
	files    *serviceMocks.MockFileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	accounts := new(serviceMocks.MockAccountService)
	accounts.On("Authenticate", mock.Anything, opsToken).Return(int64(1), nil).Maybe()
	accounts.On("Authenticate", mock.Anything, clientToken).Return(int64(2), nil).Maybe()
	accounts.On("Authenticate", mock.Anything, mock.Anything).Return(int64(0), errs.ErrUnauthenticated).Maybe()
	files := new(serviceMocks.MockFileService)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, Deps{Accounts: accounts, Files: files, Gatherer: prometheus.NewRegistry()})

	return &testEnv{app: app, accounts: accounts, files: files}
}

func (e *testEnv) do(t *testing.T, req *http.Request, token string) *http.Response {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func jsonRequest(method, path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, CodeServiceUnavailable, decodeError(t, resp).Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func registerBody() map[string]string {
	return map[string]string{
		"email": "ada@example.com", "password": "pw-123456", "password1": "pw-123456",
		"first_name": "Ada", "last_name": "Lovelace",
	}
}

func TestRegister(t *testing.T) {
	t.Run("ops created", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.On("RegisterOps", mock.Anything, service.RegisterInput{
			Email: "ada@example.com", Password: "pw-123456", Password1: "pw-123456", FirstName: "Ada", LastName: "Lovelace",
		}).Return(&model.User{ID: 1, Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", PasswordHash: "secret-hash"}, nil)

		resp := env.do(t, jsonRequest(http.MethodPost, "/auth/ops/register", registerBody()), "")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "secret-hash")

		var u map[string]any
		require.NoError(t, json.Unmarshal(raw, &u))
		assert.Equal(t, "ada@example.com", u["email"])
		assert.Equal(t, "Ada", u["first_name"])
	})

	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t)
		body := registerBody()
		body["password1"] = "different"
		delete(body, "last_name")
		body["email"] = "nope"

		resp := env.do(t, jsonRequest(http.MethodPost, "/auth/ops/register", body), "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		e := decodeError(t, resp)
		assert.Equal(t, CodeInvalidData, e.Code)
		assert.Equal(t, map[string]string{
			"email":     "Enter a valid email address.",
			"password1": "Password fields didn't match.",
			"last_name": "This field is required.",
		}, e.Errors)
		assert.NotEmpty(t, e.RequestID)
		env.accounts.AssertNotCalled(t, "RegisterOps", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/auth/ops/register", strings.NewReader("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp := env.do(t, req, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, CodeInvalidData, decodeError(t, resp).Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.On("RegisterOps", mock.Anything, mock.Anything).
			Return(nil, errs.NewFieldError(errs.ErrDuplicate, "email", "already exist with this field"))

		resp := env.do(t, jsonRequest(http.MethodPost, "/auth/ops/register", registerBody()), "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		e := decodeError(t, resp)
		assert.Equal(t, CodeUniqueConstraint, e.Code)
		assert.Equal(t, map[string]string{"email": "already exist with this field"}, e.Errors)
	})

	t.Run("client already verified", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.On("RegisterClient", mock.Anything, mock.Anything).
			Return(nil, errs.NewFieldError(errs.ErrAlreadyVerified, "error", service.MsgAlreadyVerified))

		resp := env.do(t, jsonRequest(http.MethodPost, "/auth/client/register", registerBody()), "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, CodeEmailAlreadyVerified, decodeError(t, resp).Code)
	})

	t.Run("client created", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.On("RegisterClient", mock.Anything, mock.Anything).Return(&model.User{ID: 2, Email: "ada@example.com"}, nil)

		resp := env.do(t, jsonRequest(http.MethodPost, "/auth/client/register", registerBody()), "")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestVerifyEmail(t *testing.T) {
	read := func(t *testing.T, resp *http.Response) string {
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(b)
	}

	env := newTestEnv(t)
	env.accounts.On("Verify", mock.Anything, "MTI", "good").Return(nil)
	env.accounts.On("Verify", mock.Anything, "MTI", "bad").Return(errs.ErrInvalidToken)
	env.accounts.On("Verify", mock.Anything, "MTI", "down").Return(errors.New("db down"))

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/verify/MTI/good", nil), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MsgActivated, read(t, resp))

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/verify/MTI/bad", nil), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MsgActivationFailed, read(t, resp))

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/verify/MTI/down", nil), "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.accounts.On("Login", mock.Anything, "ada@example.com", "pw").Return("jwt-token", nil)
	env.accounts.On("Login", mock.Anything, "ada@example.com", "wrong").
		Return("", errs.NewFieldError(errs.ErrInvalidCredentials, "non_field_errors", service.MsgInvalidCredential))

	resp := env.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{"email": "ada@example.com", "password": "pw"}), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var tok tokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	assert.Equal(t, "jwt-token", tok.Token)

	resp = env.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{"email": "ada@example.com", "password": "wrong"}), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidCredentials, decodeError(t, resp).Code)

	resp = env.do(t, jsonRequest(http.MethodPost, "/auth/login", map[string]string{}), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidData, decodeError(t, resp).Code)
}

func multipartUpload(t *testing.T, displayName, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("file_name", displayName))
	if filename != "" {
		part, err := w.CreateFormFile("file_content", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/file", body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadFile(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("Upload", mock.Anything, int64(1), mock.MatchedBy(func(in service.UploadInput) bool {
			return in.DisplayName == "Q1 review" && in.Filename == "q1.pptx" && in.Size == 6 && in.Content != nil
		})).Return(&model.StoredFile{ID: 5, OwnerID: 1, DisplayName: "Q1 review", StorageKey: "uploads/f5.pptx", Handle: "h-5"}, nil)

		resp := env.do(t, multipartUpload(t, "Q1 review", "q1.pptx", "slides"), opsToken)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var f map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
		assert.Equal(t, "h-5", f["file_identifier"])
		assert.Equal(t, "uploads/f5.pptx", f["file_content"])
		assert.Equal(t, float64(1), f["user"])
		env.files.AssertExpectations(t)
	})

	t.Run("client denied", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("Upload", mock.Anything, int64(2), mock.Anything).
			Return(nil, errs.NewFieldError(errs.ErrAccessDenied, policy.Field, policy.MsgOpsOnly))

		resp := env.do(t, multipartUpload(t, "Q1", "q1.pptx", "slides"), clientToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		e := decodeError(t, resp)
		assert.Equal(t, CodeAccessDenied, e.Code)
		assert.Equal(t, policy.MsgOpsOnly, e.Errors[policy.Field])
	})

	t.Run("invalid type", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("Upload", mock.Anything, int64(1), mock.Anything).
			Return(nil, errs.NewFieldError(errs.ErrInvalidFileType, "file_type", service.MsgInvalidFileType))

		resp := env.do(t, multipartUpload(t, "x", "x.exe", "MZ"), opsToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, CodeInvalidFileType, decodeError(t, resp).Code)
	})

	t.Run("missing file reaches validation", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("Upload", mock.Anything, int64(1), mock.MatchedBy(func(in service.UploadInput) bool {
			return in.Content == nil
		})).Return(nil, errs.Validation(map[string]string{"file_content": service.MsgNoFile}))

		resp := env.do(t, multipartUpload(t, "x", "", ""), opsToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, map[string]string{"file_content": service.MsgNoFile}, decodeError(t, resp).Errors)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		env := newTestEnv(t)
		resp := env.do(t, multipartUpload(t, "x", "x.pptx", "x"), "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, CodeUnauthorized, decodeError(t, resp).Code)

		resp = env.do(t, multipartUpload(t, "x", "x.pptx", "x"), "forged")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		env.files.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage down", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("Upload", mock.Anything, int64(1), mock.Anything).
			Return(nil, errors.Join(errs.ErrStorageUnavailable, errors.New("dial tcp")))

		resp := env.do(t, multipartUpload(t, "x", "x.pptx", "x"), opsToken)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		e := decodeError(t, resp)
		assert.Equal(t, CodeStorageUnavailable, e.Code)
		assert.NotContains(t, e.Errors["detail"], "dial tcp")
	})
}

func seqOf(items []model.StoredFile, err error) iter.Seq2[model.StoredFile, error] {
	return func(yield func(model.StoredFile, error) bool) {
		for _, it := range items {
			if !yield(it, nil) {
				return
			}
		}
		if err != nil {
			yield(model.StoredFile{}, err)
		}
	}
}

func TestListFiles(t *testing.T) {
	t.Run("page", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("List", mock.Anything, 5, 10).
			Return(&service.FileListResult{Items: []model.StoredFile{{ID: 3}}, Total: 11}, nil)

		resp := env.do(t, httptest.NewRequest(http.MethodGet, "/file?limit=5&offset=10", nil), clientToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.FileListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Len(t, res.Items, 1)
		assert.Equal(t, 11, res.Total)
	})

	t.Run("all", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("ListAll", mock.Anything).Return(seqOf([]model.StoredFile{{ID: 2}, {ID: 1}}, nil))

		resp := env.do(t, httptest.NewRequest(http.MethodGet, "/file", nil), opsToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.FileListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, int64(2), res.Items[0].ID)
	})

	t.Run("all with store failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("ListAll", mock.Anything).Return(seqOf([]model.StoredFile{{ID: 2}}, errors.New("db gone")))

		resp := env.do(t, httptest.NewRequest(http.MethodGet, "/file", nil), opsToken)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, CodeInternal, decodeError(t, resp).Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		env := newTestEnv(t)
		resp := env.do(t, httptest.NewRequest(http.MethodGet, "/file?limit=abc", nil), opsToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		e := decodeError(t, resp)
		assert.Equal(t, CodeInvalidData, e.Code)
		assert.Contains(t, e.Errors, "limit")
	})
}

func TestMintLink(t *testing.T) {
	env := newTestEnv(t)
	env.files.On("MintLink", mock.Anything, int64(2), int64(7)).Return("https://app.example.com/file/download/abc.def.ghi", nil)
	env.files.On("MintLink", mock.Anything, int64(2), int64(404)).
		Return("", errs.NewFieldError(errs.ErrNotFound, "file_id", service.MsgInvalidID))

	resp := env.do(t, httptest.NewRequest(http.MethodPost, "/file/link/7", nil), clientToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var link linkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&link))
	assert.Equal(t, "https://app.example.com/file/download/abc.def.ghi", link.DownloadLink)
	assert.Equal(t, "success", link.Message)

	resp = env.do(t, httptest.NewRequest(http.MethodPost, "/file/link/404", nil), clientToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, CodeInvalidID, e.Code)
	assert.Equal(t, map[string]string{"file_id": service.MsgInvalidID}, e.Errors)

	resp = env.do(t, httptest.NewRequest(http.MethodPost, "/file/link/abc", nil), clientToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidData, decodeError(t, resp).Code)
}

func TestDownloadFile(t *testing.T) {
	const token = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJoIn0.c2ln"

	t.Run("streams the content", func(t *testing.T) {
		env := newTestEnv(t)
		env.files.On("Resolve", mock.Anything, int64(2), token).Return(&service.Download{
			File: &model.StoredFile{DisplayName: "report", Extension: "pptx"},
			Body: io.NopCloser(strings.NewReader("slides")),
			Size: 6,
		}, nil)

		resp := env.do(t, httptest.NewRequest(http.MethodGet, "/file/download/"+token, nil), clientToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `attachment; filename="report.pptx"`)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "slides", string(b))
	})

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "ops denied", err: errs.NewFieldError(errs.ErrAccessDenied, policy.Field, policy.MsgClientOnly), status: http.StatusBadRequest, code: CodeAccessDenied},
		{name: "tampered", err: errs.ErrInvalidToken, status: http.StatusBadRequest, code: CodeInvalidToken},
		{name: "unknown handle", err: errs.NewFieldError(errs.ErrNotFound, "file_id", service.MsgInvalidID), status: http.StatusBadRequest, code: CodeInvalidID},
		{name: "storage down", err: errs.ErrStorageUnavailable, status: http.StatusServiceUnavailable, code: CodeStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.files.On("Resolve", mock.Anything, int64(2), token).Return(nil, tt.err)

			resp := env.do(t, httptest.NewRequest(http.MethodGet, "/file/download/"+token, nil), clientToken)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestPresignDownload(t *testing.T) {
	const token = "aaa.bbb.ccc"
	env := newTestEnv(t)
	env.files.On("PresignDownload", mock.Anything, int64(2), token).
		Return(&service.PresignedURL{URL: "https://s3.local/uploads/f1.pptx?sig", ExpiresIn: 3600}, nil)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/file/download/"+token+"/url", nil), clientToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var u service.PresignedURL
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
	assert.Equal(t, 3600, u.ExpiresIn)
	env.files.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouting(t *testing.T) {
	env := newTestEnv(t)

	t.Run("not found route", func(t *testing.T) {
		resp := env.do(t, httptest.NewRequest(http.MethodGet, "/non-existent", nil), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, CodeNotFound, decodeError(t, resp).Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp := env.do(t, httptest.NewRequest(http.MethodPost, "/healthz", nil), "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, CodeMethodNotAllowed, decodeError(t, resp).Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: secret detail") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/too-big", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, CodeInternal, e.Code)
	assert.Equal(t, map[string]string{"detail": "internal server error"}, e.Errors)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, CodeInvalidData, decodeError(t, resp).Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/too-big", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp).Errors, "file_content")
}

func TestSwaggerOrigin(t *testing.T) {
	tests := []struct {
		name, host, proto, protocol, fallback string
		wantHost, wantScheme                  string
	}{
		{"request host", "api.example.com", "", "http", "localhost:8080", "api.example.com", "http"},
		{"forwarded proto", "api.example.com", "https, http", "http", "localhost:8080", "api.example.com", "https"},
		{"no host header", "", "", "http", "localhost:8080", "localhost:8080", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, scheme := swaggerOrigin(tt.host, tt.proto, tt.protocol, tt.fallback)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantScheme, scheme)
		})
	}
}

func TestSwaggerUI_DocJSON(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	req.Host = "docs.example.com"
	req.Header.Set(fiber.HeaderXForwardedProto, "https")

	resp := env.do(t, req, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"host": "docs.example.com"`)
	assert.Contains(t, string(body), `"https"`)
}
