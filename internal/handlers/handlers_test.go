package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/schema"
	"github.com/astrelya/cv-to-dc/internal/services"
)

type mockCVService struct{ mock.Mock }

func (m *mockCVService) Upload(ctx context.Context, input services.UploadInput) (*models.CV, error) {
	args := m.Called(ctx, input)
	cv, _ := args.Get(0).(*models.CV)
	return cv, args.Error(1)
}

func (m *mockCVService) List(ctx context.Context, ownerID string) ([]models.CV, error) {
	args := m.Called(ctx, ownerID)
	cvs, _ := args.Get(0).([]models.CV)
	return cvs, args.Error(1)
}

func (m *mockCVService) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.CV, error) {
	args := m.Called(ctx, id, ownerID)
	cv, _ := args.Get(0).(*models.CV)
	return cv, args.Error(1)
}

func (m *mockCVService) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *mockCVService) Form(ctx context.Context, id uuid.UUID, ownerID string) (*models.FormData, error) {
	args := m.Called(ctx, id, ownerID)
	form, _ := args.Get(0).(*models.FormData)
	return form, args.Error(1)
}

type mockDocumentService struct{ mock.Mock }

func (m *mockDocumentService) Templates() ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockDocumentService) GenerateFromCV(ctx context.Context, cvID uuid.UUID, ownerID string, req models.GenerateRequest) (*services.Document, error) {
	args := m.Called(ctx, cvID, ownerID, req)
	doc, _ := args.Get(0).(*services.Document)
	return doc, args.Error(1)
}

func (m *mockDocumentService) GenerateFromForm(req models.GenerateFormRequest) (*services.Document, error) {
	args := m.Called(req)
	doc, _ := args.Get(0).(*services.Document)
	return doc, args.Error(1)
}

func (m *mockDocumentService) GenerateCustom(req models.GenerateCustomRequest) (*services.Document, error) {
	args := m.Called(req)
	doc, _ := args.Get(0).(*services.Document)
	return doc, args.Error(1)
}

func newTestApp(cvs *mockCVService, docs *mockDocumentService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, NewCVHandler(cvs), NewDocumentHandler(docs))
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func uploadRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("title", "Senior CV"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(ownerHeader, "user-1")
	return req
}

func TestHealth(t *testing.T) {
	app := newTestApp(&mockCVService{}, &mockDocumentService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decodeBody(t, resp)["status"])
}

func TestUpload(t *testing.T) {
	cvs := &mockCVService{}
	id := uuid.New()
	cvs.On("Upload", mock.Anything, services.UploadInput{
		OwnerID:  "user-1",
		Title:    "Senior CV",
		FileName: "ada.pdf",
		MimeType: "application/pdf",
		Content:  []byte("%PDF-1.7"),
	}).Return(&models.CV{ID: id, Status: models.StatusCompleted, SchemaType: "custom"}, nil)

	app := newTestApp(cvs, &mockDocumentService{})
	resp, err := app.Test(uploadRequest(t, "ada.pdf", "application/pdf", []byte("%PDF-1.7")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "custom", body["schema_type"])
	assert.Equal(t, id.String(), body["cv"].(map[string]any)["id"])
	cvs.AssertExpectations(t)
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &services.ValidationError{Message: "Invalid file type"}, http.StatusBadRequest},
		{"quota", &services.ExtractionError{Kind: services.ExtractionQuota}, http.StatusServiceUnavailable},
		{"auth", &services.ExtractionError{Kind: services.ExtractionAuth}, http.StatusBadGateway},
		{"unknown schema", schema.ErrUnknownSchema, http.StatusUnprocessableEntity},
		{"database", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cvs := &mockCVService{}
			cvs.On("Upload", mock.Anything, mock.Anything).Return(nil, tt.err)

			app := newTestApp(cvs, &mockDocumentService{})
			resp, err := app.Test(uploadRequest(t, "cv.txt", "text/plain", []byte("hello")))
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, decodeBody(t, resp)["error"])
		})
	}
}

func TestUploadWithoutFile(t *testing.T) {
	app := newTestApp(&mockCVService{}, &mockDocumentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cvs/upload", nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissingOwner(t *testing.T) {
	cvs, docs := &mockCVService{}, &mockDocumentService{}
	app := newTestApp(cvs, docs)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/cvs", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/cvs/"+uuid.NewString(), nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/cvs/"+uuid.NewString()+"/form", nil),
		httptest.NewRequest(http.MethodDelete, "/api/v1/cvs/"+uuid.NewString(), nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/documents/generate/"+uuid.NewString(), strings.NewReader(`{}`)),
	} {
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, req.URL.Path)
		assert.Equal(t, "Missing X-User-ID header", decodeBody(t, resp)["error"], req.URL.Path)
	}

	cvs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	cvs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	cvs.AssertNotCalled(t, "Form", mock.Anything, mock.Anything, mock.Anything)
	docs.AssertNotCalled(t, "GenerateFromCV", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetForm(t *testing.T) {
	cvs := &mockCVService{}
	id, empty := uuid.New(), uuid.New()
	cvs.On("Form", mock.Anything, id, "user-1").Return(&models.FormData{
		PersonalInfo: models.FormPersonalInfo{FirstName: "Ada"},
		Experiences:  []models.FormExperience{{Title: "Analyst", StartMonth: "12", StartYear: "2018", Current: true}},
	}, nil)
	cvs.On("Form", mock.Anything, empty, "user-1").Return(nil, services.ErrNoExtractionData)

	app := newTestApp(cvs, &mockDocumentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs/"+id.String()+"/form", nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Ada", body["personalInfo"].(map[string]any)["firstName"])
	experience := body["experience"].([]any)[0].(map[string]any)
	assert.Equal(t, "12", experience["startMonth"])
	assert.Equal(t, true, experience["current"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cvs/"+empty.String()+"/form", nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cvs/not-a-uuid/form", nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid CV ID format", decodeBody(t, resp)["error"])
	cvs.AssertExpectations(t)
}

func TestGetCV(t *testing.T) {
	cvs := &mockCVService{}
	id := uuid.New()
	cvs.On("Get", mock.Anything, id, "user-1").Return(&models.CV{ID: id, Title: "Ada"}, nil)
	missing := uuid.New()
	cvs.On("Get", mock.Anything, missing, "user-1").Return(nil, services.ErrCVNotFound)

	app := newTestApp(cvs, &mockDocumentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs/"+id.String(), nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada", decodeBody(t, resp)["title"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cvs/"+missing.String(), nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "CV not found", decodeBody(t, resp)["error"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cvs/not-a-uuid", nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAndDelete(t *testing.T) {
	cvs := &mockCVService{}
	id := uuid.New()
	cvs.On("List", mock.Anything, "user-1").Return([]models.CV{{ID: id}}, nil)
	cvs.On("Delete", mock.Anything, id, "user-1").Return(nil)

	app := newTestApp(cvs, &mockDocumentService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cvs", nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody(t, resp)["cvs"], 1)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/cvs/"+id.String(), nil)
	req.Header.Set(ownerHeader, "user-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	cvs.AssertExpectations(t)
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ownerHeader, "user-1")
	return req
}

func TestGenerateFromCV(t *testing.T) {
	docs := &mockDocumentService{}
	id := uuid.New()
	docs.On("GenerateFromCV", mock.Anything, id, "user-1", models.GenerateRequest{TemplateName: "classic.docx"}).
		Return(&services.Document{
			FileName:    "CV_Ada_1.docx",
			ContentType: services.DocxContentType,
			Content:     []byte("PK\x03\x04"),
		}, nil)

	app := newTestApp(&mockCVService{}, docs)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/documents/generate/"+id.String(), `{"templateName":"classic.docx"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, services.DocxContentType, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="CV_Ada_1.docx"`, resp.Header.Get("Content-Disposition"))
	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), content)
}

func TestGenerateValidation(t *testing.T) {
	docs := &mockDocumentService{}
	app := newTestApp(&mockCVService{}, docs)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/documents/generate/"+uuid.NewString(), `{"templateName":"classic.pdf"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "TemplateName")

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/documents/generate-custom", `{"templateName":"a.docx"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/documents/generate-form", `{not json`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", decodeBody(t, resp)["error"])

	docs.AssertNotCalled(t, "GenerateFromCV", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no data", services.ErrNoExtractionData, http.StatusBadRequest},
		{"template", &services.GenerationError{Kind: services.GenerationTemplate, Err: errors.New("bad tag")}, http.StatusBadRequest},
		{"generation", &services.GenerationError{Kind: services.GenerationFailed, Err: errors.New("zip")}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := &mockDocumentService{}
			docs.On("GenerateFromForm", mock.Anything).Return(nil, tt.err)

			app := newTestApp(&mockCVService{}, docs)
			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/documents/generate-form",
				`{"templateName":"form.docx","form":{"personalInfo":{"firstName":"Ada"}}}`))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestGenerateCustomPassesData(t *testing.T) {
	docs := &mockDocumentService{}
	docs.On("GenerateCustom", mock.MatchedBy(func(req models.GenerateCustomRequest) bool {
		return req.TemplateName == "free.docx" && req.OutputName == "letter" && string(req.Data) == `{"title":"Hi"}`
	})).Return(&services.Document{FileName: "letter.docx", ContentType: services.DocxContentType}, nil)

	app := newTestApp(&mockCVService{}, docs)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/documents/generate-custom",
		`{"templateName":"free.docx","outputName":"letter","data":{"title":"Hi"}}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	docs.AssertExpectations(t)
}

func TestTemplates(t *testing.T) {
	docs := &mockDocumentService{}
	docs.On("Templates").Return([]string{"classic.docx"}, nil)

	app := newTestApp(&mockCVService{}, docs)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/templates", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"classic.docx"}, decodeBody(t, resp)["templates"])
}
