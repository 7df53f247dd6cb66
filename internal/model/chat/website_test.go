package chat_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

func errorsIs(err, target error) bool { return errors.Is(err, target) }

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"My Blog":          "my-blog",
		"Café & Bar 2024!": "caf----bar-2024-",
		"landing":          "landing",
		"":                 "website",
		"UPPER_case.Title": "upper-case-title",
	}
	for title, want := range cases {
		got := chat.GeneratedWebsite{Title: title}.Slug()
		if got != want {
			t.Errorf("Slug(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestFilesUseSlugNames(t *testing.T) {
	site := chat.GeneratedWebsite{HTML: "<h1>x</h1>", CSS: "h1{}", JavaScript: "go()", Title: "My Blog"}
	files := site.Files()
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}

	want := []string{"my-blog.html", "my-blog.css", "my-blog.js"}
	for i, f := range files {
		if f.Name != want[i] {
			t.Errorf("file %d name = %q, want %q", i, f.Name, want[i])
		}
	}

	js, ok := site.FileByKind("js")
	if !ok || js.Content != "go()" {
		t.Fatalf("FileByKind(js) = %+v, %v", js, ok)
	}
	if _, ok := site.FileByKind("png"); ok {
		t.Fatal("expected unknown kind to be missing")
	}
}

func TestCombined(t *testing.T) {
	site := chat.GeneratedWebsite{HTML: "<p>h</p>", CSS: "p{}", JavaScript: "x()"}
	want := "<!-- HTML -->\n<p>h</p>\n\n/* CSS */\np{}\n\n// JavaScript\nx()"
	if got := site.Combined(); got != want {
		t.Fatalf("Combined() = %q", got)
	}
}

func TestPreviewDocumentEmbedsParts(t *testing.T) {
	site := chat.GeneratedWebsite{HTML: "<main>hello</main>", CSS: "main{color:red}", JavaScript: "console.log(1)"}
	doc := site.PreviewDocument()

	for _, part := range []string{"<!DOCTYPE html>", "<style>main{color:red}</style>", "<main>hello</main>", "<script>console.log(1)</script>"} {
		if !strings.Contains(doc, part) {
			t.Errorf("preview document missing %q", part)
		}
	}
	if strings.Index(doc, "<main>") > strings.Index(doc, "<script>") {
		t.Error("script must follow the body markup")
	}
}
