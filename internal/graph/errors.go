package graph

import "fmt"

// wrapOp prefixes an error the way clients display failures, e.g.
// "Error creating book: a book with this ISBN already exists".
func wrapOp(op string, err error) error {
	return fmt.Errorf("Error %s: %w", op, err)
}

// Page sizes when the caller sends no limit. Storefront listings show a
// product grid, admin tables show more rows.
const (
	customerPageSize = 12
	adminPageSize    = 20
)

func pageArgs(args map[string]any, defaultLimit int) (int, int) {
	page, limit := 1, defaultLimit
	if p, ok := args["pagination"].(map[string]any); ok {
		page = intArg(p, "page", 1)
		limit = intArg(p, "limit", defaultLimit)
	}
	return page, limit
}
