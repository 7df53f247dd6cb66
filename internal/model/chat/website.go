package chat

import (
	"fmt"
	"strings"
)

const (
	DefaultTitle       = "Generated Website"
	DefaultDescription = "Generated website"
)

// GeneratedWebsite is the code bundle attached to an assistant message.
type GeneratedWebsite struct {
	HTML        string `json:"html"`
	CSS         string `json:"css"`
	JavaScript  string `json:"javascript"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// File is a single downloadable part of a bundle.
type File struct {
	Name    string
	Kind    string
	Content string
}

// Slug normalizes the title into a file name stem.
func (w GeneratedWebsite) Slug() string {
	lower := strings.ToLower(w.Title)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "website"
	}
	return b.String()
}

// Files returns the html, css and js parts named after the slug.
func (w GeneratedWebsite) Files() []File {
	slug := w.Slug()
	return []File{
		{Name: slug + ".html", Kind: "html", Content: w.HTML},
		{Name: slug + ".css", Kind: "css", Content: w.CSS},
		{Name: slug + ".js", Kind: "js", Content: w.JavaScript},
	}
}

// FileByKind looks up one part by its kind (html, css or js).
func (w GeneratedWebsite) FileByKind(kind string) (File, bool) {
	for _, f := range w.Files() {
		if f.Kind == kind {
			return f, true
		}
	}
	return File{}, false
}

// Combined renders every part into a single annotated text block.
func (w GeneratedWebsite) Combined() string {
	return fmt.Sprintf("<!-- HTML -->\n%s\n\n/* CSS */\n%s\n\n// JavaScript\n%s", w.HTML, w.CSS, w.JavaScript)
}

// PreviewDocument assembles a standalone page for isolated rendering.
func (w GeneratedWebsite) PreviewDocument() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("<title>Preview</title>\n")
	b.WriteString("<style>")
	b.WriteString(w.CSS)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(w.HTML)
	b.WriteString("\n<script>")
	b.WriteString(w.JavaScript)
	b.WriteString("</script>\n</body>\n</html>\n")
	return b.String()
}
