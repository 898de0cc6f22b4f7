package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/AquilaXk/aquila-log/blog/domain"
	"github.com/AquilaXk/aquila-log/shared/notion"
)

// userResolver memoizes user lookups for the duration of one ingestion run.
// Pages decode concurrently, so the cache is guarded by a mutex.
type userResolver struct {
	directory domain.UserDirectory

	mu    sync.Mutex
	cache map[string]domain.Author
}

func newUserResolver(directory domain.UserDirectory) *userResolver {
	return &userResolver{
		directory: directory,
		cache:     make(map[string]domain.Author),
	}
}

// resolve returns one Author per id in input order. Ids not seen before are
// fetched in a single batched call; ids the directory cannot resolve still
// yield an Author carrying just the id.
func (r *userResolver) resolve(ctx context.Context, ids []string) ([]domain.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	r.mu.Lock()
	var missing []string
	for _, id := range ids {
		if _, ok := r.cache[id]; !ok {
			missing = append(missing, id)
		}
	}
	r.mu.Unlock()

	if len(missing) > 0 {
		records, err := r.directory.FetchUsers(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("resolving %d users: %w", len(missing), err)
		}

		r.mu.Lock()
		for _, id := range missing {
			r.cache[id] = toAuthor(id, records)
		}
		r.mu.Unlock()
	}

	authors := make([]domain.Author, 0, len(ids))
	r.mu.Lock()
	for _, id := range ids {
		authors = append(authors, r.cache[id])
	}
	r.mu.Unlock()

	return authors, nil
}

// toAuthor converts a raw user record to an Author. The display name falls
// back to the family and given names concatenated; a missing avatar stays
// nil so it serializes as an explicit null.
func toAuthor(id string, records map[string]notion.User) domain.Author {
	rec, ok := records[id]
	if !ok {
		return domain.Author{ID: id}
	}

	author := domain.Author{ID: rec.ID, Name: rec.Name}
	if author.ID == "" {
		author.ID = id
	}
	if author.Name == "" {
		author.Name = rec.FamilyName + rec.GivenName
	}
	if rec.ProfilePhoto != "" {
		photo := rec.ProfilePhoto
		author.Avatar = &photo
	}
	return author
}
