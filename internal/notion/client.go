package notion

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jomei/notionapi"
	"github.com/sirupsen/logrus"
)

const (
	// pageSize is the list page size for all paginated reads.
	pageSize = 100
	// childFetchBatch caps how many nested child fetches run concurrently.
	// A full batch completes before the next one starts.
	childFetchBatch = 5

	httpTimeout = 30 * time.Second
)

// Client wraps the Notion API services the exporter reads from.
type Client struct {
	pages     PageService
	blocks    BlockService
	databases DatabaseService
	logger    logrus.FieldLogger
}

// NewClient creates a Notion access client. An empty token fails with
// ErrCredentialMissing before any network call is made.
func NewClient(token string, log logrus.FieldLogger) (*Client, error) {
	if token == "" {
		return nil, ErrCredentialMissing
	}
	api := notionapi.NewClient(
		notionapi.Token(token),
		notionapi.WithHTTPClient(&http.Client{Timeout: httpTimeout}),
	)
	return &Client{
		pages:     api.Page,
		blocks:    api.Block,
		databases: api.Database,
		logger:    log,
	}, nil
}

// FetchPage fetches a single page's metadata.
func (c *Client) FetchPage(ctx context.Context, id string) (*notionapi.Page, error) {
	page, err := c.pages.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return nil, classify(err)
	}
	return page, nil
}

// FetchDatabase fetches a database definition.
func (c *Client) FetchDatabase(ctx context.Context, id string) (*notionapi.Database, error) {
	db, err := c.databases.Get(ctx, notionapi.DatabaseID(id))
	if err != nil {
		return nil, classify(err)
	}
	return db, nil
}

// IsDatabase reports whether id refers to a database. NotFound and
// validation responses mean "not a database"; any other failure propagates.
func (c *Client) IsDatabase(ctx context.Context, id string) (bool, error) {
	_, err := c.databases.Get(ctx, notionapi.DatabaseID(id))
	if err == nil {
		return true, nil
	}
	err = classify(err)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
		return false, nil
	}
	return false, err
}

// FetchBlockTree fetches the complete block tree under a page or block id.
// Response order is preserved exactly; it is render order. Nested children
// are fetched in batches of childFetchBatch concurrent requests, and a
// child whose fetch fails contributes empty children instead of failing the
// parent. Failures listing the top-level blocks are fatal to the call.
func (c *Client) FetchBlockTree(ctx context.Context, id string) ([]Node, error) {
	return c.fetchTree(ctx, notionapi.BlockID(id))
}

func (c *Client) fetchTree(ctx context.Context, id notionapi.BlockID) ([]Node, error) {
	blocks, err := c.listChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, len(blocks))
	var pending []int
	for i, b := range blocks {
		nodes[i] = Node{Block: b}
		if b.GetHasChildren() {
			pending = append(pending, i)
		}
	}

	for start := 0; start < len(pending); start += childFetchBatch {
		end := min(start+childFetchBatch, len(pending))
		var wg sync.WaitGroup
		for _, idx := range pending[start:end] {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				children, err := c.fetchTree(ctx, blocks[idx].GetID())
				if err != nil {
					c.logger.WithError(err).
						WithField("block_id", string(blocks[idx].GetID())).
						Warn("Failed to fetch nested children, continuing without them")
					return
				}
				nodes[idx].Children = children
			}(idx)
		}
		wg.Wait()
	}

	return nodes, nil
}

// listChildren pages through a block's direct children.
func (c *Client) listChildren(ctx context.Context, id notionapi.BlockID) ([]notionapi.Block, error) {
	var out []notionapi.Block
	var cursor notionapi.Cursor
	for {
		resp, err := c.blocks.GetChildren(ctx, id, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, resp.Results...)
		if !resp.HasMore {
			return out, nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// QueryDatabaseItems pages through every item of a database. A caller
// supplied query's filter and sorts pass through untouched; pagination is
// driven here.
func (c *Client) QueryDatabaseItems(ctx context.Context, id string, query *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	req := &notionapi.DatabaseQueryRequest{PageSize: pageSize}
	if query != nil {
		req.Filter = query.Filter
		req.Sorts = query.Sorts
	}

	var out []notionapi.Page
	for {
		resp, err := c.databases.Query(ctx, notionapi.DatabaseID(id), req)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, resp.Results...)
		if !resp.HasMore {
			return out, nil
		}
		req.StartCursor = resp.NextCursor
	}
}
