package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookFormat enumerates the physical/digital formats a book can be sold in.
type BookFormat string

const (
	FormatHardcover BookFormat = "hardcover"
	FormatPaperback BookFormat = "paperback"
	FormatEbook     BookFormat = "ebook"
	FormatAudiobook BookFormat = "audiobook"
)

// ValidBookFormat reports whether f is one of the known formats.
func ValidBookFormat(f BookFormat) bool {
	switch f {
	case FormatHardcover, FormatPaperback, FormatEbook, FormatAudiobook:
		return true
	}
	return false
}

// BookImage is one entry of a book's ordered image list.
type BookImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Alt      string `json:"alt,omitempty"`
	IsMain   bool   `json:"isMain"`
}

// Dimensions holds the physical size of a book in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Book represents a catalog entry.
type Book struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Title         string      `json:"title" db:"title"`
	Author        string      `json:"author" db:"author"`
	ISBN          *string     `json:"isbn" db:"isbn"`
	Description   string      `json:"description" db:"description"`
	Price         float64     `json:"price" db:"price"`
	OriginalPrice *float64    `json:"originalPrice" db:"original_price"`
	CategoryID    uuid.UUID   `json:"categoryId" db:"category_id"`
	Category      *Category   `json:"category"`
	Publisher     string      `json:"publisher" db:"publisher"`
	PublishedYear *int        `json:"publishedYear" db:"published_year"`
	Pages         *int        `json:"pages" db:"pages"`
	Language      string      `json:"language" db:"language"`
	Format        BookFormat  `json:"format" db:"format"`
	Dimensions    *Dimensions `json:"dimensions" db:"dimensions"`
	Weight        *float64    `json:"weight" db:"weight"`
	Images        []BookImage `json:"images" db:"images"`
	CoverImage    *BookImage  `json:"coverImage" db:"cover_image"`
	Stock         int         `json:"stock" db:"stock"`
	Sold          int         `json:"sold" db:"sold"`
	Rating        float64     `json:"rating" db:"rating"`
	ReviewCount   int         `json:"reviewCount" db:"review_count"`
	IsActive      bool        `json:"isActive" db:"is_active"`
	IsFeatured    bool        `json:"isFeatured" db:"is_featured"`
	IsOnSale      bool        `json:"isOnSale" db:"is_on_sale"`
	SaleStartDate *time.Time  `json:"saleStartDate" db:"sale_start_date"`
	SaleEndDate   *time.Time  `json:"saleEndDate" db:"sale_end_date"`
	Tags          []string    `json:"tags" db:"tags"`
	Slug          string      `json:"slug" db:"slug"`
	MetaTitle     string      `json:"metaTitle" db:"meta_title"`
	MetaDesc      string      `json:"metaDescription" db:"meta_description"`
	Keywords      []string    `json:"keywords" db:"keywords"`
	ViewCount     int         `json:"viewCount" db:"view_count"`
	WishlistCount int         `json:"wishlistCount" db:"wishlist_count"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

// EnsureCoverImage derives the cover image from the image list when it has
// not been set explicitly. The image flagged isMain wins, otherwise the
// first image is used.
func (b *Book) EnsureCoverImage() {
	if b.CoverImage != nil || len(b.Images) == 0 {
		return
	}
	main := b.Images[0]
	for _, img := range b.Images {
		if img.IsMain {
			main = img
			break
		}
	}
	b.CoverImage = &BookImage{URL: main.URL, PublicID: main.PublicID, Alt: main.Alt}
}
