package graph

import (
	"bookstore-api/internal/repository"
	"bookstore-api/internal/service"

	"github.com/graphql-go/graphql"
)

func (b *schemaBuilder) userQueries() graphql.Fields {
	return graphql.Fields{
		"me": &graphql.Field{
			Type: b.userType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := requireAuthenticated(p.Context)
				if err != nil {
					return nil, err
				}

				user, err := b.r.Users.GetByID(p.Context, identity.ID)
				if err != nil {
					return nil, wrapOp("fetching profile", err)
				}
				return user, nil
			},
		},
		"users": &graphql.Field{
			Type: b.usersResultType,
			Args: graphql.FieldConfigArgument{
				"filter":     &graphql.ArgumentConfig{Type: b.userFilterInput},
				"pagination": &graphql.ArgumentConfig{Type: b.paginationInput},
				"sortBy":     &graphql.ArgumentConfig{Type: graphql.String},
				"sortOrder":  &graphql.ArgumentConfig{Type: b.sortOrderEnum},
				"search":     &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				var filter repository.UserFilter
				if raw, ok := p.Args["filter"]; ok && raw != nil {
					if err := decodeInput(raw, &filter); err != nil {
						return nil, wrapOp("fetching users", err)
					}
				}

				page, limit := pageArgs(p.Args, adminPageSize)
				q := repository.UserQuery{
					Filter:    filter,
					Search:    stringArg(p.Args, "search"),
					SortBy:    stringArg(p.Args, "sortBy"),
					SortOrder: stringArg(p.Args, "sortOrder"),
					Page:      page,
					Limit:     limit,
				}

				users, pageInfo, err := b.r.Users.List(p.Context, q)
				if err != nil {
					return nil, wrapOp("fetching users", err)
				}
				return &UsersResult{Users: users, PageInfo: pageInfo}, nil
			},
		},
		// A user may look up their own account; admins may look up anyone.
		"user": &graphql.Field{
			Type: b.userType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("fetching user", err)
				}

				if _, err := requireOwnerOrAdmin(p.Context, id); err != nil {
					return nil, err
				}

				user, err := b.r.Users.GetByID(p.Context, id)
				if err != nil {
					return nil, wrapOp("fetching user", err)
				}
				return user, nil
			},
		},
		"userStats": &graphql.Field{
			Type: b.userStatsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				stats, err := b.r.Users.Stats(p.Context)
				if err != nil {
					return nil, wrapOp("fetching user stats", err)
				}
				return stats, nil
			},
		},
	}
}

func (b *schemaBuilder) createUserInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"role":            &graphql.InputObjectFieldConfig{Type: b.roleEnum},
			"phone":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"address":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"gender":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isActive":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isEmailVerified": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
}

func (b *schemaBuilder) updateUserInput() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":            &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"role":            &graphql.InputObjectFieldConfig{Type: b.roleEnum},
			"phone":           &graphql.InputObjectFieldConfig{Type: graphql.String},
			"address":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"avatar":          &graphql.InputObjectFieldConfig{Type: b.imageInput},
			"dateOfBirth":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"gender":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isActive":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isEmailVerified": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})
}

func (b *schemaBuilder) userMutations() graphql.Fields {
	registerInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RegisterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	updateProfileInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateProfileInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"phone":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"address":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"avatar":      &graphql.InputObjectFieldConfig{Type: b.imageInput},
			"dateOfBirth": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"gender":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	bulkUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "BulkUserUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"isActive":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isEmailVerified": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"role":            &graphql.InputObjectFieldConfig{Type: b.roleEnum},
		},
	})

	return graphql.Fields{
		"register": &graphql.Field{
			Type: b.authPayloadType,
			Args: graphql.FieldConfigArgument{
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var input service.RegisterInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("registering user", err)
				}

				payload, err := b.r.Users.Register(p.Context, input)
				if err != nil {
					return nil, wrapOp("registering user", err)
				}
				return payload, nil
			},
		},
		"login": &graphql.Field{
			Type: b.authPayloadType,
			Args: graphql.FieldConfigArgument{
				"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				payload, err := b.r.Users.Login(p.Context,
					stringArg(p.Args, "email"), stringArg(p.Args, "password"))
				if err != nil {
					return nil, wrapOp("logging in", err)
				}
				return payload, nil
			},
		},
		// Tokens are stateless; the server has nothing to revoke.
		"logout": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return true, nil
			},
		},
		"updateProfile": &graphql.Field{
			Type: b.userType,
			Args: graphql.FieldConfigArgument{
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateProfileInput)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := requireAuthenticated(p.Context)
				if err != nil {
					return nil, err
				}

				var input service.UpdateProfileInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("updating profile", err)
				}

				user, err := b.r.Users.UpdateProfile(p.Context, identity.ID, input)
				if err != nil {
					return nil, wrapOp("updating profile", err)
				}
				return user, nil
			},
		},
		"changePassword": &graphql.Field{
			Type: graphql.Boolean,
			Args: graphql.FieldConfigArgument{
				"currentPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"newPassword":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"confirmPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := requireAuthenticated(p.Context)
				if err != nil {
					return nil, err
				}

				err = b.r.Users.ChangePassword(p.Context, identity.ID,
					stringArg(p.Args, "currentPassword"),
					stringArg(p.Args, "newPassword"),
					stringArg(p.Args, "confirmPassword"))
				if err != nil {
					return nil, wrapOp("changing password", err)
				}
				return true, nil
			},
		},
		"createUser": &graphql.Field{
			Type: b.userType,
			Args: graphql.FieldConfigArgument{
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.createUserInput())},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				var input service.CreateUserInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("creating user", err)
				}

				user, err := b.r.Users.CreateUser(p.Context, input)
				if err != nil {
					return nil, wrapOp("creating user", err)
				}
				return user, nil
			},
		},
		"updateUser": &graphql.Field{
			Type: b.userType,
			Args: graphql.FieldConfigArgument{
				"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.updateUserInput())},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if _, err := requireAdmin(p.Context); err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("updating user", err)
				}
				var input service.UpdateUserInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("updating user", err)
				}

				user, err := b.r.Users.UpdateUser(p.Context, id, input)
				if err != nil {
					return nil, wrapOp("updating user", err)
				}
				return user, nil
			},
		},
		"deleteUser": &graphql.Field{
			Type: graphql.Boolean,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := requireAdmin(p.Context)
				if err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("deleting user", err)
				}

				if err := b.r.Users.DeleteUser(p.Context, identity.ID, id); err != nil {
					return nil, wrapOp("deleting user", err)
				}
				return true, nil
			},
		},
		"toggleUserStatus": &graphql.Field{
			Type: b.userType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := requireAdmin(p.Context)
				if err != nil {
					return nil, err
				}

				id, err := parseID(p.Args["id"])
				if err != nil {
					return nil, wrapOp("toggling user status", err)
				}

				user, err := b.r.Users.ToggleStatus(p.Context, identity.ID, id)
				if err != nil {
					return nil, wrapOp("toggling user status", err)
				}
				return user, nil
			},
		},
		"bulkUpdateUsers": &graphql.Field{
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
					return nil, wrapOp("updating users", err)
				}
				var input service.BulkUserUpdateInput
				if err := decodeInput(p.Args["input"], &input); err != nil {
					return nil, wrapOp("updating users", err)
				}

				count, err := b.r.Users.BulkUpdate(p.Context, ids, input)
				if err != nil {
					return nil, wrapOp("updating users", err)
				}
				return count, nil
			},
		},
		"bulkDeleteUsers": &graphql.Field{
			Type: graphql.Int,
			Args: graphql.FieldConfigArgument{
				"ids": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				identity, err := requireAdmin(p.Context)
				if err != nil {
					return nil, err
				}

				ids, err := parseIDs(p.Args["ids"])
				if err != nil {
					return nil, wrapOp("deleting users", err)
				}

				count, err := b.r.Users.BulkDelete(p.Context, identity.ID, ids)
				if err != nil {
					return nil, wrapOp("deleting users", err)
				}
				return count, nil
			},
		},
	}
}
