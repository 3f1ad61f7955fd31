package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemAccessors(t *testing.T) {
	item := Item{
		FieldID:          "abc",
		FieldContentType: TypeNews,
		FieldTitle:       "Title",
		FieldStatus:      StatusPublished,
		"views":          float64(12),
	}

	assert.Equal(t, "abc", item.ID())
	assert.Equal(t, TypeNews, item.ContentType())
	assert.True(t, item.IsPublished())
	assert.Empty(t, item.Category())

	// Non-string values never panic the string accessors.
	assert.Empty(t, Item{FieldTitle: 42}.Title())
}

func TestItemFileURLs(t *testing.T) {
	item := Item{
		FieldImageURL: "https://bucket.s3.amazonaws.com/a.jpg",
		"file_url":    "",
	}

	urls := item.FileURLs(FieldImageURL, "file_url", "missing")
	assert.Equal(t, []string{"https://bucket.s3.amazonaws.com/a.jpg"}, urls)
}

func TestItemClone(t *testing.T) {
	original := Item{FieldTitle: "a"}
	clone := original.Clone()
	clone[FieldTitle] = "b"

	assert.Equal(t, "a", original.Title())
	assert.Equal(t, "b", clone.Title())
}

func TestPolicyIsUpdatable(t *testing.T) {
	news := NewsPolicy()
	assert.True(t, news.IsUpdatable(FieldTitle))
	assert.True(t, news.IsUpdatable(FieldCategory))
	assert.False(t, news.IsUpdatable(FieldID))
	assert.False(t, news.IsUpdatable(FieldContentType))

	board := BoardPolicy()
	assert.False(t, board.IsUpdatable(FieldCategory))

	gallery := GalleryPolicy()
	assert.Contains(t, gallery.FileURLFields, "file_url")
}
