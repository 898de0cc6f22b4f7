package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://www.notion.so/api/v3"
	defaultTimeout = 30 * time.Second

	// chunkLimit matches the page size the web client requests.
	chunkLimit = 100

	// maxChunks bounds pagination so a misbehaving cursor cannot loop forever.
	maxChunks = 50
)

// Client talks to the private Notion v3 API. It implements both the page
// graph source and the user directory consumed by the ingestion service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new Client. httpClient may be nil, in which case a
// default client with a request timeout is used. token is the token_v2
// cookie value and may be empty for publicly shared pages.
func NewClient(httpClient *http.Client, baseURL string, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
	}
}

type loadPageChunkRequest struct {
	PageID          string `json:"pageId"`
	Limit           int    `json:"limit"`
	Cursor          cursor `json:"cursor"`
	ChunkNumber     int    `json:"chunkNumber"`
	VerticalColumns bool   `json:"verticalColumns"`
}

type cursor struct {
	Stack []any `json:"stack"`
}

type loadPageChunkResponse struct {
	RecordMap RecordMap `json:"recordMap"`
	Cursor    cursor    `json:"cursor"`
}

// FetchPageGraph fetches the full record graph for a root page, following
// chunk cursors until the graph is complete.
func (c *Client) FetchPageGraph(ctx context.Context, rootID string) (*RecordMap, error) {
	op := fmt.Sprintf("loading page chunks for %s", rootID)

	graph := &RecordMap{
		Block:           map[string]any{},
		Collection:      map[string]any{},
		CollectionView:  map[string]any{},
		CollectionQuery: map[string]any{},
	}

	cur := cursor{Stack: []any{}}
	for chunk := 0; chunk < maxChunks; chunk++ {
		reqBody := loadPageChunkRequest{
			PageID:      rootID,
			Limit:       chunkLimit,
			Cursor:      cur,
			ChunkNumber: chunk,
		}

		var resp loadPageChunkResponse
		if err := c.post(ctx, "loadPageChunk", reqBody, &resp); err != nil {
			return nil, fmt.Errorf("notion: %s failed: %w", op, err)
		}

		mergeTable(graph.Block, resp.RecordMap.Block)
		mergeTable(graph.Collection, resp.RecordMap.Collection)
		mergeTable(graph.CollectionView, resp.RecordMap.CollectionView)
		mergeTable(graph.CollectionQuery, resp.RecordMap.CollectionQuery)

		if len(resp.Cursor.Stack) == 0 {
			break
		}
		cur = resp.Cursor
	}

	return graph, nil
}

type syncRecordValuesRequest struct {
	Requests []recordRequest `json:"requests"`
}

type recordRequest struct {
	Pointer recordPointer `json:"pointer"`
	Version int           `json:"version"`
}

type recordPointer struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

type syncRecordValuesResponse struct {
	RecordMapWithRoles struct {
		NotionUser map[string]any `json:"notion_user"`
	} `json:"recordMapWithRoles"`
}

// FetchUsers resolves user ids to raw user records in a single call. Ids the
// API does not return are absent from the result rather than an error.
func (c *Client) FetchUsers(ctx context.Context, ids []string) (map[string]User, error) {
	if len(ids) == 0 {
		return map[string]User{}, nil
	}

	op := fmt.Sprintf("syncing %d user records", len(ids))

	reqBody := syncRecordValuesRequest{}
	for _, id := range ids {
		reqBody.Requests = append(reqBody.Requests, recordRequest{
			Pointer: recordPointer{Table: "notion_user", ID: id},
			Version: -1,
		})
	}

	var resp syncRecordValuesResponse
	if err := c.post(ctx, "syncRecordValues", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("notion: %s failed: %w", op, err)
	}

	users := make(map[string]User, len(ids))
	for id, raw := range resp.RecordMapWithRoles.NotionUser {
		val := UnwrapRecord(raw)
		if val == nil {
			continue
		}
		users[id] = User{
			ID:           StringValue(val, "id"),
			Name:         StringValue(val, "name"),
			GivenName:    StringValue(val, "given_name"),
			FamilyName:   StringValue(val, "family_name"),
			ProfilePhoto: StringValue(val, "profile_photo"),
		}
	}
	return users, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Cookie", "token_v2="+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func mergeTable(dst map[string]any, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
