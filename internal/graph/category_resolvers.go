package graph

import (
	"bookstore-api/internal/repository"
	"bookstore-api/internal/service"

	"github.com/graphql-go/graphql"
)

func (b *schemaBuilder) categoryQueryArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"filter":     &graphql.ArgumentConfig{Type: b.categoryFilterInput},
		"pagination": &graphql.ArgumentConfig{Type: b.paginationInput},
		"sortBy":     &graphql.ArgumentConfig{Type: graphql.String},
		"sortOrder":  &graphql.ArgumentConfig{Type: b.sortOrderEnum},
		"search":     &graphql.ArgumentConfig{Type: graphql.String},
	}
}

func (b *schemaBuilder) decodeCategoryQuery(args map[string]any, defaultLimit int) (repository.CategoryQuery, error) {
	var filter repository.CategoryFilter
	if raw, ok := args["filter"]; ok && raw != nil {
		if err := decodeInput(raw, &filter); err != nil {
			return repository.CategoryQuery{}, err
		}
	}

	page, limit := pageArgs(args, defaultLimit)
	return repository.CategoryQuery{
		Filter:    filter,
		Search:    stringArg(args, "search"),
		SortBy:    stringArg(args, "sortBy"),
		SortOrder: stringArg(args, "sortOrder"),
		Page:      page,
		Limit:     limit,
	}, nil
}

func (b *schemaBuilder) categoryQueries() graphql.Fields {
	return graphql.Fields{
		"categories": &graphql.Field{
			Type: b.categoriesResultType,
			Args: b.categoryQueryArgs(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				q, err := b.decodeCategoryQuery(p.Args, customerPageSize)
				if err != nil {
					return nil, wrapOp("fetching categories", err)
				}
				active := true
				q.Filter.IsActive = &active

				categories, pageInfo, err := b.r.Categories.List(p.Context, q)
				if err != nil {
					return nil, wrapOp("fetching categories", err)
				}
				return &CategoriesResult{Categories: categories, PageInfo: pageInfo}, nil
			},
		},
		// Admin view without the forced active filter.
		"allCategories": &graphql.Field{
			Type: b.categoriesResultType,
			Args: b.categoryQueryArgs(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				q, err := b.decodeCategoryQuery(p.Args, adminPageSize)
				if err != nil {
					return nil, wrapOp("fetching categories", err)
				}

				categories, pageInfo, err := b.r.Categories.List(p.Context, q)
				if err != nil {
					return nil, wrapOp("fetching categories", err)
				}
				return &CategoriesResult{Categories: categories, PageInfo: pageInfo}, nil
			},
		},
		"category": &graphql.Field{
			Type: b.categoryType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("fetching category", err)
				}

				category, err := b.r.Categories.GetByID(p.Context, id)
				if err != nil {
					return nil, wrapOp("fetching category", err)
				}
				return category, nil
			},
		},
		"categoryBySlug": &graphql.Field{
			Type: b.categoryType,
			Args: graphql.FieldConfigArgument{
				"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				category, err := b.r.Categories.GetBySlug(p.Context, stringArg(p.Args, "slug"))
				if err != nil {
					return nil, wrapOp("fetching category", err)
				}
				return category, nil
			},
		},
		"activeCategories": &graphql.Field{
			Type: graphql.NewList(b.categoryType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				categories, err := b.r.Categories.Active(p.Context)
				if err != nil {
					return nil, wrapOp("fetching categories", err)
				}
				return categories, nil
			},
		},
		"featuredCategories": &graphql.Field{
			Type: graphql.NewList(b.categoryType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				categories, err := b.r.Categories.FeaturedActive(p.Context)
				if err != nil {
					return nil, wrapOp("fetching featured categories", err)
				}
				return categories, nil
			},
		},
		"categoryHierarchy": &graphql.Field{
			Type: graphql.NewList(b.categoryType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				categories, err := b.r.Categories.Hierarchy(p.Context)
				if err != nil {
					return nil, wrapOp("fetching category hierarchy", err)
				}
				return categories, nil
			},
		},
		"categoryStats": &graphql.Field{
			Type: b.categoryStatsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				stats, err := b.r.Categories.Stats(p.Context)
				if err != nil {
					return nil, wrapOp("fetching category stats", err)
				}
				return stats, nil
			},
		},
	}
}

func (b *schemaBuilder) createCategoryInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"slug":             &graphql.InputObjectFieldConfig{Type: graphql.String},
			"image":            &graphql.InputObjectFieldConfig{Type: b.imageInput},
			"parentCategoryId": &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"isActive":         &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isFeatured":       &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"sortOrder":        &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"metaTitle":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"metaDescription":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"keywords":         &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})
}

func (b *schemaBuilder) updateCategoryInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":             &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"slug":             &graphql.InputObjectFieldConfig{Type: graphql.String},
			"image":            &graphql.InputObjectFieldConfig{Type: b.imageInput},
			"parentCategoryId": &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"clearParent":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isActive":         &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isFeatured":       &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"sortOrder":        &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"metaTitle":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"metaDescription":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"keywords":         &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})
}

func (b *schemaBuilder) categoryMutations() graphql.Fields {
	bulkUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "BulkCategoryUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"isActive":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isFeatured": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
	reorderInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ReorderCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"sortOrder": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	return graphql.Fields{
		"createCategory": &graphql.Field{
			Type: b.categoryType,
			Args: graphql.FieldConfigArgument{
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.createCategoryInput())},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				var input service.CreateCategoryInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("creating category", err)
				}

				category, err := b.r.Categories.Create(p.Context, input)
				if err != nil {
					return nil, wrapOp("creating category", err)
				}
				return category, nil
			},
		},
		"updateCategory": &graphql.Field{
			Type: b.categoryType,
			Args: graphql.FieldConfigArgument{
				"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.updateCategoryInput())},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("updating category", err)
				}
				var input service.UpdateCategoryInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("updating category", err)
				}

				category, err := b.r.Categories.Update(p.Context, id, input)
				if err != nil {
					return nil, wrapOp("updating category", err)
				}
				return category, nil
			},
		},
		"deleteCategory": &graphql.Field{
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
					return nil, wrapOp("deleting category", err)
				}

				if err := b.r.Categories.Delete(p.Context, id); err != nil {
					return nil, wrapOp("deleting category", err)
				}
				return true, nil
			},
		},
		"toggleCategoryStatus": &graphql.Field{
			Type: b.categoryType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("toggling category status", err)
				}

				category, err := b.r.Categories.ToggleStatus(p.Context, id)
				if err != nil {
					return nil, wrapOp("toggling category status", err)
				}
				return category, nil
			},
		},
		"toggleCategoryFeatured": &graphql.Field{
			Type: b.categoryType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("toggling category featured", err)
				}

				category, err := b.r.Categories.ToggleFeatured(p.Context, id)
				if err != nil {
					return nil, wrapOp("toggling category featured", err)
				}
				return category, nil
			},
		},
		"bulkUpdateCategories": &graphql.Field{
			Type: graphql.Int,
			Args: graphql.FieldConfigArgument{
				"ids":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(bulkUpdateInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				ids, err := parseIDs(p.Args["ids"])
				if err != nil {
					return nil, wrapOp("updating categories", err)
				}
				var input service.BulkCategoryUpdateInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("updating categories", err)
				}

				count, err := b.r.Categories.BulkUpdate(p.Context, ids, input)
				if err != nil {
					return nil, wrapOp("updating categories", err)
				}
				return count, nil
			},
		},
		"bulkDeleteCategories": &graphql.Field{
			Type: graphql.Int,
			Args: graphql.FieldConfigArgument{
				"ids": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				ids, err := parseIDs(p.Args["ids"])
				if err != nil {
					return nil, wrapOp("deleting categories", err)
				}

				count, err := b.r.Categories.BulkDelete(p.Context, ids)
				if err != nil {
					return nil, wrapOp("deleting categories", err)
				}
				return count, nil
			},
		},
		"reorderCategories": &graphql.Field{
			Type: graphql.NewList(b.categoryType),
			Args: graphql.FieldConfigArgument{
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(reorderInput)))},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				var inputs []service.ReorderCategoryInput
				if err := decodeSlice(p.Args["input"], &inputs); err != nil {
					return nil, wrapOp("reordering categories", err)
				}

				categories, err := b.r.Categories.Reorder(p.Context, inputs)
				if err != nil {
					return nil, wrapOp("reordering categories", err)
				}
				return categories, nil
			},
		},
	}
}
