package domain

import (
	"context"

	"github.com/AquilaXk/aquila-log/shared/notion"
)

// PageGraphSource fetches the record graph for a root page (e.g., from the
// Notion API). This allows the application to be decoupled from a specific
// implementation.
type PageGraphSource interface {
	FetchPageGraph(ctx context.Context, rootID string) (*notion.RecordMap, error)
}

// UserDirectory resolves user reference ids to raw user records.
// Ids missing from the returned map simply could not be resolved.
type UserDirectory interface {
	FetchUsers(ctx context.Context, ids []string) (map[string]notion.User, error)
}

// ImageURLMapper rewrites an asset URL so it is fetchable outside the source
// workspace, using the owning block as context. Implementations never fail;
// a URL that cannot be mapped comes back empty and the caller treats the
// property as absent.
type ImageURLMapper interface {
	Remap(url string, block map[string]any) string
}

// PostProvider serves the assembled post list.
type PostProvider interface {
	GetPosts(ctx context.Context, forceFresh bool) ([]*Post, error)
}

// PathInvalidator purges one rendered path from a downstream cache.
type PathInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}
