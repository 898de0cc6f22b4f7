package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/AquilaXk/aquila-log/blog/domain"
	"github.com/AquilaXk/aquila-log/shared/notion"
)

// ErrNoSchema is returned when the fetched page graph contains no collection
// with a usable schema. This points at a misconfigured root page id, so it is
// fatal for the run rather than something to retry.
var ErrNoSchema = errors.New("no collection schema found in page graph")

const maxConcurrentPages = 8

// PostService ingests the configured content collection and assembles the
// post list. Ingestion runs on the service's own lifecycle context: once
// started it finishes or fails regardless of any caller going away.
type PostService struct {
	source domain.PageGraphSource
	users  domain.UserDirectory
	mapper domain.ImageURLMapper
	rootID string

	ctx    context.Context
	cancel context.CancelFunc
}

func NewPostService(source domain.PageGraphSource, users domain.UserDirectory, mapper domain.ImageURLMapper, rootID string) *PostService {
	ctx, cancel := context.WithCancel(context.Background())
	return &PostService{
		source: source,
		users:  users,
		mapper: mapper,
		rootID: rootID,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Close releases the service lifecycle context.
func (s *PostService) Close() error {
	s.cancel()
	return nil
}

// Ingest fetches the page graph, locates the content collection, decodes and
// assembles every member page, and returns the surviving posts sorted newest
// first. Individual pages that fail to decode or validate are dropped; a
// fetch failure or a graph without a schema fails the whole call.
func (s *PostService) Ingest() ([]*domain.Post, error) {
	ctx := s.ctx

	graph, err := s.source.FetchPageGraph(ctx, s.rootID)
	if err != nil {
		return nil, fmt.Errorf("fetching page graph for %s: %w", s.rootID, err)
	}

	collectionID, schema := locateCollection(graph)
	if collectionID == "" {
		return nil, ErrNoSchema
	}

	pageIDs := memberPageIDs(graph, collectionID)

	decoder := &pageDecoder{
		schema:   schema,
		blocks:   graph.Block,
		resolver: newUserResolver(s.users),
		mapper:   s.mapper,
	}

	candidates := make([]*domain.Post, len(pageIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)
	for i, pageID := range pageIDs {
		i, pageID := i, pageID
		g.Go(func() error {
			props, block := decoder.decodePage(gctx, pageID)
			if block == nil {
				log.Warn().Str("pageID", pageID).Msg("Member page missing or has no properties")
				return nil
			}
			candidates[i] = assemblePost(pageID, props, createdTimeOf(block))
			return nil
		})
	}
	// Workers never return errors; invalid pages just leave nil slots.
	_ = g.Wait()

	posts := make([]*domain.Post, 0, len(candidates))
	for _, p := range candidates {
		if p != nil {
			posts = append(posts, p)
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].EffectiveDate().After(posts[j].EffectiveDate())
	})

	log.Info().Int("count", len(posts)).Int("candidates", len(pageIDs)).Msg("Ingested posts")
	return posts, nil
}

// locateCollection scans the graph's collection table for the first entry
// whose unwrapped value carries a schema.
func locateCollection(graph *notion.RecordMap) (string, notion.Schema) {
	for id, raw := range graph.Collection {
		val := notion.UnwrapRecord(raw)
		if val == nil {
			continue
		}
		if schema := notion.ParseSchema(val["schema"]); schema != nil {
			return id, schema
		}
	}
	return "", nil
}

// memberPageIDs enumerates the collection's member pages. The precomputed
// query result embedded in the graph is authoritative when present, in either
// its grouped or flat shape; scanning the block table for pages parented by
// the collection is only a fallback for graphs without one.
func memberPageIDs(graph *notion.RecordMap, collectionID string) []string {
	if views, ok := graph.CollectionQuery[collectionID].(map[string]any); ok {
		for _, rawView := range views {
			view, ok := rawView.(map[string]any)
			if !ok {
				continue
			}
			if grouped, ok := view["collection_group_results"].(map[string]any); ok && notion.StringValue(grouped, "type") == "results" {
				return stringSlice(grouped["blockIds"])
			}
			return stringSlice(view["blockIds"])
		}
	}

	var ids []string
	for id, raw := range graph.Block {
		block := notion.UnwrapRecord(raw)
		if block == nil {
			continue
		}
		if notion.StringValue(block, "type") == "page" && notion.StringValue(block, "parent_id") == collectionID {
			ids = append(ids, id)
		}
	}
	return ids
}

func createdTimeOf(block map[string]any) time.Time {
	if ms, ok := block["created_time"].(float64); ok {
		return time.UnixMilli(int64(ms)).UTC()
	}
	return time.Time{}
}

func stringSlice(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
