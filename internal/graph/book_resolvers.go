package graph

import (
	"bookstore-api/internal/repository"
	"bookstore-api/internal/service"

	"github.com/graphql-go/graphql"
)

func (b *schemaBuilder) bookQueryArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"filter":     &graphql.ArgumentConfig{Type: b.bookFilterInput},
		"pagination": &graphql.ArgumentConfig{Type: b.paginationInput},
		"sortBy":     &graphql.ArgumentConfig{Type: b.bookSortEnum},
		"sortOrder":  &graphql.ArgumentConfig{Type: b.sortOrderEnum},
		"search":     &graphql.ArgumentConfig{Type: graphql.String},
	}
}

func (b *schemaBuilder) decodeBookQuery(args map[string]any, substring bool) (repository.BookQuery, error) {
	var filter repository.BookFilter
	if raw, ok := args["filter"]; ok && raw != nil {
		if err := decodeInput(raw, &filter); err != nil {
			return repository.BookQuery{}, err
		}
	}

	// Substring search is the admin catalog view, which pages wider.
	defaultLimit := customerPageSize
	if substring {
		defaultLimit = adminPageSize
	}

	page, limit := pageArgs(args, defaultLimit)
	return repository.BookQuery{
		Filter:    filter,
		Search:    stringArg(args, "search"),
		Substring: substring,
		SortBy:    stringArg(args, "sortBy"),
		SortOrder: stringArg(args, "sortOrder"),
		Page:      page,
		Limit:     limit,
	}, nil
}

func (b *schemaBuilder) bookQueries() graphql.Fields {
	return graphql.Fields{
		// Storefront listing. Only active books, full-text search.
		"books": &graphql.Field{
			Type: b.booksResultType,
			Args: b.bookQueryArgs(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				q, err := b.decodeBookQuery(p.Args, false)
				if err != nil {
					return nil, wrapOp("fetching books", err)
				}
				active := true
				q.Filter.IsActive = &active

				books, pageInfo, err := b.r.Books.List(p.Context, q)
				if err != nil {
					return nil, wrapOp("fetching books", err)
				}
				return &BooksResult{Books: books, PageInfo: pageInfo}, nil
			},
		},
		// Admin catalog view. No forced active filter, substring search.
		"allBooks": &graphql.Field{
			Type: b.booksResultType,
			Args: b.bookQueryArgs(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				q, err := b.decodeBookQuery(p.Args, true)
				if err != nil {
					return nil, wrapOp("fetching books", err)
				}

				books, pageInfo, err := b.r.Books.List(p.Context, q)
				if err != nil {
					return nil, wrapOp("fetching books", err)
				}
				return &BooksResult{Books: books, PageInfo: pageInfo}, nil
			},
		},
		"book": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("fetching book", err)
				}

				book, err := b.r.Books.GetByID(p.Context, id, true)
				if err != nil {
					return nil, wrapOp("fetching book", err)
				}
				return book, nil
			},
		},
		"bookBySlug": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				book, err := b.r.Books.GetBySlug(p.Context, stringArg(p.Args, "slug"))
				if err != nil {
					return nil, wrapOp("fetching book", err)
				}
				return book, nil
			},
		},
		"featuredBooks": &graphql.Field{
			Type: graphql.NewList(b.bookType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 8},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				books, err := b.r.Books.Featured(p.Context, intArg(p.Args, "limit", 8))
				if err != nil {
					return nil, wrapOp("fetching featured books", err)
				}
				return books, nil
			},
		},
		"booksByCategory": &graphql.Field{
			Type: b.booksResultType,
			Args: graphql.FieldConfigArgument{
				"categoryId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"pagination": &graphql.ArgumentConfig{Type: b.paginationInput},
				"sortBy":     &graphql.ArgumentConfig{Type: b.bookSortEnum},
				"sortOrder":  &graphql.ArgumentConfig{Type: b.sortOrderEnum},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				categoryID, err := parseID(p.Args["categoryId"])
				if err != nil {
					return nil, wrapOp("fetching books", err)
				}

				active := true
				page, limit := pageArgs(p.Args, customerPageSize)
				q := repository.BookQuery{
					Filter:    repository.BookFilter{CategoryID: &categoryID, IsActive: &active},
					SortBy:    stringArg(p.Args, "sortBy"),
					SortOrder: stringArg(p.Args, "sortOrder"),
					Page:      page,
					Limit:     limit,
				}

				books, pageInfo, err := b.r.Books.List(p.Context, q)
				if err != nil {
					return nil, wrapOp("fetching books", err)
				}
				return &BooksResult{Books: books, PageInfo: pageInfo}, nil
			},
		},
		"searchBooks": &graphql.Field{
			Type: b.booksResultType,
			Args: graphql.FieldConfigArgument{
				"query":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"pagination": &graphql.ArgumentConfig{Type: b.paginationInput},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				active := true
				page, limit := pageArgs(p.Args, customerPageSize)
				q := repository.BookQuery{
					Filter: repository.BookFilter{IsActive: &active},
					Search: stringArg(p.Args, "query"),
					Page:   page,
					Limit:  limit,
				}

				books, pageInfo, err := b.r.Books.List(p.Context, q)
				if err != nil {
					return nil, wrapOp("searching books", err)
				}
				return &BooksResult{Books: books, PageInfo: pageInfo}, nil
			},
		},
		"relatedBooks": &graphql.Field{
			Type: graphql.NewList(b.bookType),
			Args: graphql.FieldConfigArgument{
				"bookId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 4},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				bookID, err := parseID(p.Args["bookId"])
				if err != nil {
					return nil, wrapOp("fetching related books", err)
				}

				books, err := b.r.Books.Related(p.Context, bookID, intArg(p.Args, "limit", 4))
				if err != nil {
					return nil, wrapOp("fetching related books", err)
				}
				return books, nil
			},
		},
		"bookStats": &graphql.Field{
			Type: b.bookStatsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				stats, err := b.r.Books.Stats(p.Context)
				if err != nil {
					return nil, wrapOp("fetching book stats", err)
				}
				return stats, nil
			},
		},
	}
}

func (b *schemaBuilder) createBookInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateBookInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"author":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"isbn":            &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"price":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"originalPrice":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"categoryId":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"publisher":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"publishedYear":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"pages":           &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"language":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"format":          &graphql.InputObjectFieldConfig{Type: b.bookFormatEnum},
			"dimensions":      &graphql.InputObjectFieldConfig{Type: b.dimensionsInput},
			"weight":          &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"images":          &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(b.bookImageInput))},
			"stock":           &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"isActive":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isFeatured":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isOnSale":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"saleStartDate":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"saleEndDate":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"tags":            &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"metaTitle":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"metaDescription": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"keywords":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})
}

func (b *schemaBuilder) updateBookInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateBookInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"author":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isbn":            &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"price":           &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"originalPrice":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"categoryId":      &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"publisher":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"publishedYear":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"pages":           &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"language":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"format":          &graphql.InputObjectFieldConfig{Type: b.bookFormatEnum},
			"dimensions":      &graphql.InputObjectFieldConfig{Type: b.dimensionsInput},
			"weight":          &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"images":          &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(b.bookImageInput))},
			"coverImage":      &graphql.InputObjectFieldConfig{Type: b.bookImageInput},
			"stock":           &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"isActive":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isFeatured":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isOnSale":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"saleStartDate":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"saleEndDate":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"tags":            &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"metaTitle":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"metaDescription": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"keywords":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})
}

func (b *schemaBuilder) bookMutations() graphql.Fields {
	return graphql.Fields{
		"createBook": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.createBookInput())},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				var input service.CreateBookInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("creating book", err)
				}

				book, err := b.r.Books.Create(p.Context, input)
				if err != nil {
					return nil, wrapOp("creating book", err)
				}
				return book, nil
			},
		},
		"updateBook": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.updateBookInput())},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("updating book", err)
				}
				var input service.UpdateBookInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("updating book", err)
				}

				book, err := b.r.Books.Update(p.Context, id, input)
				if err != nil {
					return nil, wrapOp("updating book", err)
				}
				return book, nil
			},
		},
		"deleteBook": &graphql.Field{
			Type: graphql.Boolean,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("deleting book", err)
				}

				if err := b.r.Books.Delete(p.Context, id); err != nil {
					return nil, wrapOp("deleting book", err)
				}
				return true, nil
			},
		},
		"toggleBookStatus": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("toggling book status", err)
				}

				book, err := b.r.Books.ToggleStatus(p.Context, id)
				if err != nil {
					return nil, wrapOp("toggling book status", err)
				}
				return book, nil
			},
		},
		"toggleFeaturedStatus": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("toggling featured status", err)
				}

				book, err := b.r.Books.ToggleFeatured(p.Context, id)
				if err != nil {
					return nil, wrapOp("toggling featured status", err)
				}
				return book, nil
			},
		},
		"updateBookStock": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"quantity":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				"operation": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("updating book stock", err)
				}

				book, err := b.r.Books.UpdateStock(p.Context, id,
					intArg(p.Args, "quantity", 0), stringArg(p.Args, "operation"))
				if err != nil {
					return nil, wrapOp("updating book stock", err)
				}
				return book, nil
			},
		},
		"updateBookRating": &graphql.Field{
			Type: b.bookType,
			Args: graphql.FieldConfigArgument{
				"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"rating": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("updating book rating", err)
				}
				rating, _ := p.Args["rating"].(float64)

				book, err := b.r.Books.UpdateRating(p.Context, id, rating)
				if err != nil {
					return nil, wrapOp("updating book rating", err)
				}
				return book, nil
			},
		},
	}
}
