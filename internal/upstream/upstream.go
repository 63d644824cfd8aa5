package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
	"github.com/vinifvision/alerta-conecta-mobile/internal/service"
)

// ErrNotFound is returned when an incident id does not exist in the store.
var ErrNotFound = errors.New("incident not found")

// SubmissionError carries the upstream failure as-is. The backend is not
// consistent about content type on errors, so Body holds whatever came back,
// JSON or plain text.
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("upstream: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, body)
}

// IncidentStore is the data-access collaborator. Implementations: fixture
// (demo/offline), HTTP (legacy Java backend) and Postgres. Callers must not
// assume which one is active.
type IncidentStore interface {
	GetAll(ctx context.Context) ([]models.Incident, error)
	GetByID(ctx context.Context, id int) (*models.Incident, error)
	// Create submits a validated payload. Backends that return the stored
	// record yield it; the legacy HTTP contract returns nothing, so a nil
	// incident with a nil error is a successful create.
	Create(ctx context.Context, sub service.Submission) (*models.Incident, error)
	Update(ctx context.Context, id int, sub service.Submission) error
}

type tokenKey struct{}

// WithToken stores the caller's bearer token for pass-through to the
// upstream backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token carried by ctx, or "".
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
