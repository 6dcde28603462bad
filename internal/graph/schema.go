// Package graph assembles the GraphQL schema over the service layer.
// Types are built programmatically; field resolution falls back to json
// struct tags except where an explicit resolver is needed (enums, lazy
// subcategory loading, computed fields).
package graph

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds the executable schema for the given resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	b := newSchemaBuilder(r)

	queryFields := graphql.Fields{}
	mutationFields := graphql.Fields{}

	merge := func(dst graphql.Fields, srcs ...graphql.Fields) {
		for _, src := range srcs {
			for name, field := range src {
				dst[name] = field
			}
		}
	}

	merge(queryFields, b.bookQueries(), b.categoryQueries(), b.userQueries())
	merge(mutationFields, b.bookMutations(), b.categoryMutations(), b.userMutations())

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutationFields,
		}),
	})
}
