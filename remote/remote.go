package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/SunnySoftwareTech/Drafty/models"
)

// SnapshotClient talks to the one remote document holding a user's snapshot.
// Implementations remember the document id once it is known.
type SnapshotClient interface {
	// Discover looks the document up. found is false when the user has none.
	Discover(ctx context.Context) (id string, found bool, err error)
	Create(ctx context.Context, snap models.Snapshot) (string, error)
	Update(ctx context.Context, id string, snap models.Snapshot) error
	// Fetch returns nil when the document exists but holds no snapshot file.
	Fetch(ctx context.Context, id string) (*models.Snapshot, error)
}

// Provider builds clients bound to a token and checks tokens.
type Provider interface {
	NewClient(token string) SnapshotClient
	// TestToken reports false, with a nil error, when the host rejects the token.
	TestToken(ctx context.Context, token string) (bool, error)
}

// ErrUnavailable wraps transport failures: timeouts, refused connections, DNS.
var ErrUnavailable = errors.New("remote host unavailable")

// Error is a non-2xx answer from the remote host.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// StatusCode extracts the HTTP status of a remote error, or 0.
func StatusCode(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
