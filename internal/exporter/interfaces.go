package exporter

import (
	"context"

	"github.com/jomei/notionapi"

	"github.com/dotneet/notion-exporter/internal/notion"
)

//go:generate mockgen -source=interfaces.go -destination=mock_exporter/mock_service.go -package=mock_exporter

// NotionService is the slice of the access layer the exporter drives.
// *notion.Client implements it.
type NotionService interface {
	FetchPage(ctx context.Context, id string) (*notionapi.Page, error)
	FetchBlockTree(ctx context.Context, id string) ([]notion.Node, error)
	FetchDatabase(ctx context.Context, id string) (*notionapi.Database, error)
	IsDatabase(ctx context.Context, id string) (bool, error)
	QueryDatabaseItems(ctx context.Context, id string, query *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error)
}
