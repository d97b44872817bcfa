package books

import (
	"strings"
	"unicode"
)

const (
	UnknownTitle         = "Unknown Title"
	MaxDescriptionLength = 300
	ellipsis             = "..."
)

// BookRecord is the normalized shape returned to the browser.
type BookRecord struct {
	Title         string  `json:"title"`
	Authors       string  `json:"authors"`
	Description   string  `json:"description"`
	Thumbnail     *string `json:"thumbnail"`
	PublishedDate string  `json:"publishedDate"`
	PageCount     *int    `json:"pageCount"`
	Categories    string  `json:"categories"`
}

// Normalize maps one upstream volume to a BookRecord. Missing fields take
// defaults, the volume is never dropped.
func Normalize(v Volume) BookRecord {
	info := v.VolumeInfo

	title := info.Title
	if title == "" {
		title = UnknownTitle
	}

	return BookRecord{
		Title:         title,
		Authors:       strings.Join(info.Authors, ", "),
		Description:   TruncateDescription(info.Description),
		Thumbnail:     Thumbnail(info.ImageLinks),
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Categories:    strings.Join(info.Categories, ", "),
	}
}

func NormalizeAll(items []Volume) []BookRecord {
	out := make([]BookRecord, 0, len(items))
	for _, it := range items {
		out = append(out, Normalize(it))
	}
	return out
}

// Thumbnail prefers the larger "thumbnail" link over "smallThumbnail".
func Thumbnail(links ImageLinks) *string {
	switch {
	case links.Thumbnail != "":
		s := links.Thumbnail
		return &s
	case links.SmallThumbnail != "":
		s := links.SmallThumbnail
		return &s
	default:
		return nil
	}
}

// TruncateDescription keeps descriptions up to MaxDescriptionLength runes.
// Longer ones are cut at the last whitespace inside the limit, or hard at the
// limit when there is none, and get an ellipsis.
func TruncateDescription(desc string) string {
	if desc == "" {
		return ""
	}
	runes := []rune(desc)
	if len(runes) <= MaxDescriptionLength {
		return desc
	}

	cut := runes[:MaxDescriptionLength]
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	return string(cut) + ellipsis
}
