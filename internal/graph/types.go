package graph

import (
	"bookstore-api/internal/domain"
	"bookstore-api/internal/repository"
	"bookstore-api/internal/service"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// Resolver carries the services the schema resolves against.
type Resolver struct {
	Users      service.UserService
	Books      service.BookService
	Categories service.CategoryService
	Logger     *zap.Logger
}

// BooksResult pairs a page of books with its pagination metadata.
type BooksResult struct {
	Books    []*domain.Book      `json:"books"`
	PageInfo repository.PageInfo `json:"pageInfo"`
}

// CategoriesResult pairs a page of categories with its metadata.
type CategoriesResult struct {
	Categories []*domain.Category  `json:"categories"`
	PageInfo   repository.PageInfo `json:"pageInfo"`
}

// UsersResult pairs a page of users with its metadata.
type UsersResult struct {
	Users    []*domain.User      `json:"users"`
	PageInfo repository.PageInfo `json:"pageInfo"`
}

// schemaBuilder holds the shared type instances while the schema is
// assembled. GraphQL objects are reference-identified, so every field
// must point at the same instance.
type schemaBuilder struct {
	r *Resolver

	bookFormatEnum *graphql.Enum
	roleEnum       *graphql.Enum
	sortOrderEnum  *graphql.Enum
	bookSortEnum   *graphql.Enum

	imageType      *graphql.Object
	bookImageType  *graphql.Object
	dimensionsType *graphql.Object
	pageInfoType   *graphql.Object

	bookType     *graphql.Object
	categoryType *graphql.Object
	userType     *graphql.Object

	authPayloadType      *graphql.Object
	booksResultType      *graphql.Object
	categoriesResultType *graphql.Object
	usersResultType      *graphql.Object

	bookStatsType     *graphql.Object
	categoryStatsType *graphql.Object
	userStatsType     *graphql.Object

	paginationInput     *graphql.InputObject
	bookFilterInput     *graphql.InputObject
	categoryFilterInput *graphql.InputObject
	userFilterInput     *graphql.InputObject
	imageInput          *graphql.InputObject
	bookImageInput      *graphql.InputObject
	dimensionsInput     *graphql.InputObject
}

func newSchemaBuilder(r *Resolver) *schemaBuilder {
	b := &schemaBuilder{r: r}
	b.buildEnums()
	b.buildScalarsAndFragments()
	b.buildObjectTypes()
	b.buildInputTypes()
	return b
}

func (b *schemaBuilder) buildEnums() {
	b.bookFormatEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "BookFormat",
		Values: graphql.EnumValueConfigMap{
			"HARDCOVER": &graphql.EnumValueConfig{Value: "hardcover"},
			"PAPERBACK": &graphql.EnumValueConfig{Value: "paperback"},
			"EBOOK":     &graphql.EnumValueConfig{Value: "ebook"},
			"AUDIOBOOK": &graphql.EnumValueConfig{Value: "audiobook"},
		},
	})

	b.roleEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "Role",
		Values: graphql.EnumValueConfigMap{
			"CUSTOMER": &graphql.EnumValueConfig{Value: "customer"},
			"ADMIN":    &graphql.EnumValueConfig{Value: "admin"},
		},
	})

	b.sortOrderEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "SortOrder",
		Values: graphql.EnumValueConfigMap{
			"ASC":  &graphql.EnumValueConfig{Value: "ASC"},
			"DESC": &graphql.EnumValueConfig{Value: "DESC"},
		},
	})

	b.bookSortEnum = graphql.NewEnum(graphql.EnumConfig{
		Name: "BookSortField",
		Values: graphql.EnumValueConfigMap{
			"CREATED_AT": &graphql.EnumValueConfig{Value: "CREATED_AT"},
			"UPDATED_AT": &graphql.EnumValueConfig{Value: "UPDATED_AT"},
			"TITLE":      &graphql.EnumValueConfig{Value: "TITLE"},
			"AUTHOR":     &graphql.EnumValueConfig{Value: "AUTHOR"},
			"PRICE":      &graphql.EnumValueConfig{Value: "PRICE"},
			"RATING":     &graphql.EnumValueConfig{Value: "RATING"},
			"SOLD":       &graphql.EnumValueConfig{Value: "SOLD"},
			"VIEW_COUNT": &graphql.EnumValueConfig{Value: "VIEW_COUNT"},
		},
	})
}

func (b *schemaBuilder) buildScalarsAndFragments() {
	b.imageType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Image",
		Fields: graphql.Fields{
			"url":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"publicId": &graphql.Field{Type: graphql.String},
		},
	})

	b.bookImageType = graphql.NewObject(graphql.ObjectConfig{
		Name: "BookImage",
		Fields: graphql.Fields{
			"url":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"publicId": &graphql.Field{Type: graphql.String},
			"alt":      &graphql.Field{Type: graphql.String},
			"isMain":   &graphql.Field{Type: graphql.Boolean},
		},
	})

	b.dimensionsType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Dimensions",
		Fields: graphql.Fields{
			"length": &graphql.Field{Type: graphql.Float},
			"width":  &graphql.Field{Type: graphql.Float},
			"height": &graphql.Field{Type: graphql.Float},
		},
	})

	b.pageInfoType = graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"totalCount":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalPages":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"currentPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})
}

func (b *schemaBuilder) buildObjectTypes() {
	b.categoryType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description":      &graphql.Field{Type: graphql.String},
			"slug":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"image":            &graphql.Field{Type: b.imageType},
			"parentCategoryId": &graphql.Field{Type: graphql.ID},
			"bookCount":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"isActive":         &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"isFeatured":       &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"sortOrder":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"metaTitle":        &graphql.Field{Type: graphql.String},
			"metaDescription":  &graphql.Field{Type: graphql.String},
			"keywords":         &graphql.Field{Type: graphql.NewList(graphql.String)},
			"createdAt":        &graphql.Field{Type: graphql.DateTime},
			"updatedAt":        &graphql.Field{Type: graphql.DateTime},
		},
	})

	// Self-referential fields are attached after creation.
	b.categoryType.AddFieldConfig("parentCategory", &graphql.Field{
		Type: b.categoryType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			category, ok := p.Source.(*domain.Category)
			if !ok || category.ParentCategory == nil {
				return nil, nil
			}
			return category.ParentCategory, nil
		},
	})
	b.categoryType.AddFieldConfig("subCategories", &graphql.Field{
		Type: graphql.NewList(b.categoryType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			category, ok := p.Source.(*domain.Category)
			if !ok {
				return nil, nil
			}
			if category.SubCategories != nil || len(category.SubCategoryIDs) == 0 {
				return category.SubCategories, nil
			}
			return b.r.Categories.SubCategories(p.Context, category)
		},
	})

	b.bookType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"author":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"isbn":          &graphql.Field{Type: graphql.String},
			"description":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price":         &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"originalPrice": &graphql.Field{Type: graphql.Float},
			"categoryId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"category":      &graphql.Field{Type: b.categoryType},
			"publisher":     &graphql.Field{Type: graphql.String},
			"publishedYear": &graphql.Field{Type: graphql.Int},
			"pages":         &graphql.Field{Type: graphql.Int},
			"language":      &graphql.Field{Type: graphql.String},
			"format": &graphql.Field{
				Type: b.bookFormatEnum,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, ok := p.Source.(*domain.Book)
					if !ok {
						return nil, nil
					}
					return string(book.Format), nil
				},
			},
			"dimensions":    &graphql.Field{Type: b.dimensionsType},
			"weight":        &graphql.Field{Type: graphql.Float},
			"images":        &graphql.Field{Type: graphql.NewList(b.bookImageType)},
			"coverImage":    &graphql.Field{Type: b.bookImageType},
			"stock":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"sold":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"rating":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"reviewCount":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"isActive":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"isFeatured":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"isOnSale":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"saleStartDate": &graphql.Field{Type: graphql.DateTime},
			"saleEndDate":   &graphql.Field{Type: graphql.DateTime},
			"tags":          &graphql.Field{Type: graphql.NewList(graphql.String)},
			"slug":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"metaTitle":     &graphql.Field{Type: graphql.String},
			"metaDescription": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, ok := p.Source.(*domain.Book)
					if !ok {
						return nil, nil
					}
					return book.MetaDesc, nil
				},
			},
			"keywords":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"viewCount":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"wishlistCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"discountPercentage": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					book, ok := p.Source.(*domain.Book)
					if !ok || book.OriginalPrice == nil || *book.OriginalPrice <= book.Price {
						return 0, nil
					}
					return int((1-book.Price / *book.OriginalPrice)*100 + 0.5), nil
				},
			},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	b.userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"role": &graphql.Field{
				Type: b.roleEnum,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*domain.User)
					if !ok {
						return nil, nil
					}
					return string(user.Role), nil
				},
			},
			"phone":           &graphql.Field{Type: graphql.String},
			"address":         &graphql.Field{Type: graphql.String},
			"avatar":          &graphql.Field{Type: b.imageType},
			"dateOfBirth":     &graphql.Field{Type: graphql.DateTime},
			"gender":          &graphql.Field{Type: graphql.String},
			"isActive":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"isEmailVerified": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"lastLogin":       &graphql.Field{Type: graphql.DateTime},
			"createdAt":       &graphql.Field{Type: graphql.DateTime},
			"updatedAt":       &graphql.Field{Type: graphql.DateTime},
		},
	})

	b.authPayloadType = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":      &graphql.Field{Type: graphql.NewNonNull(b.userType)},
			"expiresIn": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.booksResultType = graphql.NewObject(graphql.ObjectConfig{
		Name: "BooksResult",
		Fields: graphql.Fields{
			"books":    &graphql.Field{Type: graphql.NewList(b.bookType)},
			"pageInfo": &graphql.Field{Type: graphql.NewNonNull(b.pageInfoType)},
		},
	})

	b.categoriesResultType = graphql.NewObject(graphql.ObjectConfig{
		Name: "CategoriesResult",
		Fields: graphql.Fields{
			"categories": &graphql.Field{Type: graphql.NewList(b.categoryType)},
			"pageInfo":   &graphql.Field{Type: graphql.NewNonNull(b.pageInfoType)},
		},
	})

	b.usersResultType = graphql.NewObject(graphql.ObjectConfig{
		Name: "UsersResult",
		Fields: graphql.Fields{
			"users":    &graphql.Field{Type: graphql.NewList(b.userType)},
			"pageInfo": &graphql.Field{Type: graphql.NewNonNull(b.pageInfoType)},
		},
	})

	b.bookStatsType = graphql.NewObject(graphql.ObjectConfig{
		Name: "BookStats",
		Fields: graphql.Fields{
			"totalBooks":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"activeBooks":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"inactiveBooks":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalStock":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalSold":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"averageRating":   &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"featuredBooks":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"outOfStockBooks": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	b.categoryStatsType = graphql.NewObject(graphql.ObjectConfig{
		Name: "CategoryStats",
		Fields: graphql.Fields{
			"totalCategories":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"activeCategories":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"inactiveCategories": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"featuredCategories": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"parentCategories":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"subCategories":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	b.userStatsType = graphql.NewObject(graphql.ObjectConfig{
		Name: "UserStats",
		Fields: graphql.Fields{
			"totalUsers":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"activeUsers":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"inactiveUsers":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"verifiedUsers":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"unverifiedUsers":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"customers":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"admins":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"newUsersThisMonth": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
}

func (b *schemaBuilder) buildInputTypes() {
	b.paginationInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PaginationInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"page": &graphql.InputObjectFieldConfig{Type: graphql.Int, DefaultValue: 1},
			// No limit default here; each listing applies its own page size.
			"limit": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	b.bookFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "BookFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"categoryId": &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"minPrice":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"maxPrice":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"author":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"publisher":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"language":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"format":     &graphql.InputObjectFieldConfig{Type: b.bookFormatEnum},
			"inStock":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isActive":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isFeatured": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isOnSale":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"minRating":  &graphql.InputObjectFieldConfig{Type: graphql.Float},
		},
	})

	b.categoryFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CategoryFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"isActive":         &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isFeatured":       &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"parentCategoryId": &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"hasParent":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	b.userFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"role":            &graphql.InputObjectFieldConfig{Type: b.roleEnum},
			"isActive":        &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"isEmailVerified": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"gender":          &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	b.imageInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ImageInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"url":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"publicId": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	b.bookImageInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "BookImageInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"url":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"publicId": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"alt":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"isMain":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	b.dimensionsInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "DimensionsInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"length": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"width":  &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"height": &graphql.InputObjectFieldConfig{Type: graphql.Float},
		},
	})
}
