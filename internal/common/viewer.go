package common

import (
	"context"
)

// Viewer is the resolved identity of the requester for one operation. The
// zero value is the anonymous viewer. It is derived per request and never
// persisted.
type Viewer struct {
	UserID uint64
	Handle string
}

// Anonymous is the viewer used when no credential was presented.
var Anonymous = Viewer{}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == 0
}

type contextKey string

const viewerContextKey contextKey = "viewer"

// WithViewer attaches the resolved viewer to the request context.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, v)
}

// ViewerFromContext returns the viewer attached by the auth middleware. A
// missing value means no credential was presented, which is the anonymous
// viewer, never an error.
func ViewerFromContext(ctx context.Context) Viewer {
	if v, ok := ctx.Value(viewerContextKey).(Viewer); ok {
		return v
	}
	return Anonymous
}

// AssertOwner enforces that a mutating operation on an owned resource comes
// from its creator. Anonymous viewers can never own anything.
func AssertOwner(resourceOwnerID uint64, viewer Viewer) error {
	if viewer.IsAnonymous() || viewer.UserID != resourceOwnerID {
		return ErrForbidden
	}
	return nil
}
