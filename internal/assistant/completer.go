// Package assistant generates automated replies to student messages.
package assistant

import (
	"context"
)

// Completer produces a reply for a student message. An empty reply with a
// nil error means the provider had nothing to say; callers substitute a
// fallback.
type Completer interface {
	Complete(ctx context.Context, content string) (string, error)
}
