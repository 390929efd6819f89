package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/repositories"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, cv *models.CV) error {
	return m.Called(ctx, cv).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID string) (*models.CV, error) {
	args := m.Called(ctx, id, ownerID)
	cv, _ := args.Get(0).(*models.CV)
	return cv, args.Error(1)
}

func (m *mockRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]models.CV, error) {
	args := m.Called(ctx, ownerID)
	cvs, _ := args.Get(0).([]models.CV)
	return cvs, args.Error(1)
}

func (m *mockRepo) Complete(ctx context.Context, id uuid.UUID, data *repositories.CompletionData) error {
	return m.Called(ctx, id, data).Error(0)
}

func (m *mockRepo) MarkFailed(ctx context.Context, id uuid.UUID, note string) error {
	return m.Called(ctx, id, note).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Save(content []byte, originalName string) (string, error) {
	args := m.Called(content, originalName)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Delete(path string) error {
	return m.Called(path).Error(0)
}

func (m *mockStorage) EnsureUploadDir() error {
	return m.Called().Error(0)
}

type mockExtractor struct{ mock.Mock }

func (m *mockExtractor) Extract(ctx context.Context, content []byte, mimeType string) (json.RawMessage, error) {
	args := m.Called(ctx, content, mimeType)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

type mockGemini struct{ mock.Mock }

func (m *mockGemini) GenerateJSON(ctx context.Context, systemPrompt string, parts []*genai.Part) (string, error) {
	args := m.Called(ctx, systemPrompt, parts)
	return args.String(0), args.Error(1)
}

type mockPDF struct{ mock.Mock }

func (m *mockPDF) ExtractText(content []byte) (string, error) {
	args := m.Called(content)
	return args.String(0), args.Error(1)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Render(templateName string, data any) ([]byte, error) {
	args := m.Called(templateName, data)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

func (m *mockRenderer) List() ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockRenderer) EnsureDir() error {
	return m.Called().Error(0)
}
