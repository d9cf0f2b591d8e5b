package adapter

import "context"

// SearchAdapter is a best-effort instant-answer lookup. Search returns an
// empty string (no error) when nothing useful came back; errors are for
// transport failures, which callers are expected to swallow.
type SearchAdapter interface {
	Search(ctx context.Context, query string) (string, error)
}
