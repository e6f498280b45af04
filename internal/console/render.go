package console

import (
	"strings"
	"text/template"

	"golang.org/x/text/message"

	"github.com/udovin/board/internal/api"
)

// DefaultTemplate contains default template of posts list.
//
// Template is executed with RenderData.
const DefaultTemplate = `{{if .Posts -}}
{{.Header}}
{{range $i, $post := .Posts -}}
[{{inc $i}}] {{$post.Title}}
    {{$post.Content}}
    ({{$.EditLabel}}: edit {{inc $i}}) ({{$.DeleteLabel}}: delete {{inc $i}})
{{end -}}
{{else -}}
{{.Empty}}
{{end -}}`

// RenderData contains data for template of posts list.
type RenderData struct {
	Posts       []api.Post
	Header      string
	Empty       string
	EditLabel   string
	DeleteLabel string
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// NewTemplate parses template of posts list.
func NewTemplate(text string) (*template.Template, error) {
	return template.New("posts").Funcs(templateFuncs).Parse(text)
}

// Renderer renders list of posts.
type Renderer struct {
	Template *template.Template
	Printer  *message.Printer
}

// NewRenderer creates renderer with default template.
func NewRenderer(printer *message.Printer) *Renderer {
	return &Renderer{
		Template: template.Must(NewTemplate(DefaultTemplate)),
		Printer:  printer,
	}
}

// Render replaces content of container with rendered posts.
//
// Nil posts are not a list, so container is left untouched. Empty posts
// are rendered as placeholder.
func (r *Renderer) Render(
	container Container, posts []api.Post, bind func(api.Post) Item,
) error {
	if posts == nil {
		return nil
	}
	data := RenderData{
		Posts:       posts,
		Header:      r.Printer.Sprintf("Posts:"),
		Empty:       r.Printer.Sprintf("No posts yet."),
		EditLabel:   r.Printer.Sprintf("Edit"),
		DeleteLabel: r.Printer.Sprintf("Delete"),
	}
	var content strings.Builder
	if err := r.Template.Execute(&content, data); err != nil {
		return err
	}
	items := make([]Item, 0, len(posts))
	for _, post := range posts {
		items = append(items, bind(post))
	}
	container.Replace(content.String(), items)
	return nil
}
