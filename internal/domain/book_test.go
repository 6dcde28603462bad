package domain

import "testing"

func TestEnsureCoverImage(t *testing.T) {
	t.Run("main image wins", func(t *testing.T) {
		book := &Book{Images: []BookImage{
			{URL: "first.jpg"},
			{URL: "main.jpg", IsMain: true},
		}}
		book.EnsureCoverImage()
		if book.CoverImage == nil || book.CoverImage.URL != "main.jpg" {
			t.Errorf("expected main.jpg cover, got %+v", book.CoverImage)
		}
	})

	t.Run("falls back to first image", func(t *testing.T) {
		book := &Book{Images: []BookImage{
			{URL: "first.jpg"},
			{URL: "second.jpg"},
		}}
		book.EnsureCoverImage()
		if book.CoverImage == nil || book.CoverImage.URL != "first.jpg" {
			t.Errorf("expected first.jpg cover, got %+v", book.CoverImage)
		}
	})

	t.Run("explicit cover untouched", func(t *testing.T) {
		book := &Book{
			CoverImage: &BookImage{URL: "explicit.jpg"},
			Images:     []BookImage{{URL: "main.jpg", IsMain: true}},
		}
		book.EnsureCoverImage()
		if book.CoverImage.URL != "explicit.jpg" {
			t.Errorf("explicit cover was replaced: %+v", book.CoverImage)
		}
	})

	t.Run("no images leaves cover nil", func(t *testing.T) {
		book := &Book{}
		book.EnsureCoverImage()
		if book.CoverImage != nil {
			t.Errorf("expected nil cover, got %+v", book.CoverImage)
		}
	})
}

func TestValidBookFormat(t *testing.T) {
	for _, f := range []BookFormat{FormatHardcover, FormatPaperback, FormatEbook, FormatAudiobook} {
		if !ValidBookFormat(f) {
			t.Errorf("ValidBookFormat(%q) = false, want true", f)
		}
	}
	if ValidBookFormat("vinyl") {
		t.Error(`ValidBookFormat("vinyl") = true, want false`)
	}
}
