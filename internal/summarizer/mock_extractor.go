package summarizer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockWebExtractor is a mock implementation of WebExtractor.
type MockWebExtractor struct {
	mock.Mock
}

func (m *MockWebExtractor) Extract(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// MockPDFExtractor is a mock implementation of PDFExtractor.
type MockPDFExtractor struct {
	mock.Mock
}

func (m *MockPDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}
