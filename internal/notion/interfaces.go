package notion

import (
	"context"

	"github.com/jomei/notionapi"
)

// Service interfaces mirror the subset of the notionapi client the exporter
// reads from. The concrete services on *notionapi.Client satisfy them.
//
//go:generate mockgen -source=interfaces.go -destination=mock_notion/mock_notionapi.go -package=mock_notion
type (
	PageService interface {
		Get(context.Context, notionapi.PageID) (*notionapi.Page, error)
	}

	BlockService interface {
		GetChildren(context.Context, notionapi.BlockID, *notionapi.Pagination) (*notionapi.GetChildrenResponse, error)
	}

	DatabaseService interface {
		Get(context.Context, notionapi.DatabaseID) (*notionapi.Database, error)
		Query(context.Context, notionapi.DatabaseID, *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	}
)
