package gateway

import (
	"context"
	"fmt"

	"github.com/ravnkild/eira/internal/domain"
)

// Mock is an order gateway for testing. The default behavior accepts every
// submission.
type Mock struct {
	// SubmitFunc allows customizing submission behavior per test.
	SubmitFunc func(ctx context.Context, snapshot domain.CartSnapshot) (*domain.SubmissionResult, error)

	// Snapshots stores every submitted snapshot for assertions.
	Snapshots []domain.CartSnapshot

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

// NewMock creates a mock order gateway.
func NewMock() *Mock {
	return &Mock{}
}

// Submit implements domain.OrderGateway.
func (m *Mock) Submit(ctx context.Context, snapshot domain.CartSnapshot) (*domain.SubmissionResult, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Submit(%d items)", len(snapshot.Items)))
	m.Snapshots = append(m.Snapshots, snapshot)

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, snapshot)
	}

	return &domain.SubmissionResult{
		Type:    domain.ResponseSuccess,
		Message: "Order received",
	}, nil
}

var _ domain.OrderGateway = (*Mock)(nil)
