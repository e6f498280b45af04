package console

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/udovin/board/internal/api"
	"github.com/udovin/board/internal/pkg/locale"
)

func testBind(post api.Post) Item {
	return Item{Post: post}
}

func TestRendererRender(t *testing.T) {
	r := NewRenderer(locale.NewPrinter(language.English))
	posts := []api.Post{
		{ID: 7, Title: "<b>Bold</b> & co", Content: "  spaced\tcontent  "},
		{ID: 3, Title: "Plain", Content: "Text"},
	}
	view := testView{}
	if err := r.Render(&view, posts, testBind); err != nil {
		t.Fatal("Error:", err)
	}
	expected := "Posts:\n" +
		"[1] <b>Bold</b> & co\n" +
		"      spaced\tcontent  \n" +
		"    (Edit: edit 1) (Delete: delete 1)\n" +
		"[2] Plain\n" +
		"    Text\n" +
		"    (Edit: edit 2) (Delete: delete 2)\n"
	if view.content != expected {
		t.Fatalf("Expected %q, got %q", expected, view.content)
	}
	if len(view.items) != len(posts) {
		t.Fatalf("Expected %d items, got %d", len(posts), len(view.items))
	}
	for i := range posts {
		if view.items[i].Post != posts[i] {
			t.Fatalf("Expected %v, got %v", posts[i], view.items[i].Post)
		}
	}
}

func TestRendererEmpty(t *testing.T) {
	for tag, expected := range map[language.Tag]string{
		language.English: "No posts yet.\n",
		language.Korean:  "등록된 게시글이 없습니다.\n",
	} {
		r := NewRenderer(locale.NewPrinter(tag))
		view := testView{content: "old"}
		if err := r.Render(&view, []api.Post{}, testBind); err != nil {
			t.Fatal("Error:", err)
		}
		if view.replaced != 1 || view.content != expected {
			t.Fatalf("Expected %q, got %q", expected, view.content)
		}
		if len(view.items) != 0 {
			t.Fatalf("Expected no items, got %v", view.items)
		}
	}
}

func TestRendererNil(t *testing.T) {
	r := NewRenderer(locale.NewPrinter(language.English))
	view := testView{content: "old"}
	if err := r.Render(&view, nil, testBind); err != nil {
		t.Fatal("Error:", err)
	}
	if view.replaced != 0 || view.content != "old" {
		t.Fatal("Expected untouched container")
	}
}

func TestRendererCustomTemplate(t *testing.T) {
	tmpl, err := NewTemplate(`{{range .Posts}}{{.ID}}:{{.Title}};{{end}}`)
	if err != nil {
		t.Fatal("Error:", err)
	}
	r := NewRenderer(locale.NewPrinter(language.English))
	r.Template = tmpl
	view := testView{}
	posts := []api.Post{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	if err := r.Render(&view, posts, testBind); err != nil {
		t.Fatal("Error:", err)
	}
	if view.content != "1:A;2:B;" {
		t.Fatalf("Unexpected content: %q", view.content)
	}
	if _, err := NewTemplate(`{{range .Posts}`); err == nil {
		t.Fatal("Expected error")
	}
	if strings.Contains(view.content, "Posts:") {
		t.Fatal("Unexpected header")
	}
}
