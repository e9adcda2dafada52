// Package format maps content records to Block Kit messages. All formatting
// rules are pure: they read the record, never mutate it, and perform no I/O.
package format

import (
	"fmt"
	"strings"

	"github.com/vibeflow/notifier/internal/blockkit"
	"github.com/vibeflow/notifier/internal/content"
)

const (
	// Tags beyond this count are dropped from the context strip.
	maxDisplayTags = 5
	// News items beyond this count are silently dropped, first items win.
	maxNewsItems = 10
	// Budget for an excerpt derived from a full article body.
	excerptLength = 200
)

// Formatter renders content records against a canonical site base URL,
// e.g. https://vibeflow.site.
type Formatter struct {
	BaseURL string
}

// New builds a Formatter. A trailing slash on baseURL is dropped.
func New(baseURL string) Formatter {
	return Formatter{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Format renders a content record into a message. The union is closed, so
// an unhandled variant is a programming error.
func (f Formatter) Format(rec content.Record) blockkit.Message {
	switch r := rec.(type) {
	case content.Workflow:
		return f.workflow(r)
	case content.Server:
		return f.server(r)
	case content.Article:
		return f.article(r)
	case content.NewsBatch:
		return f.newsBatch(r)
	case content.MemberJoined:
		return Welcome()
	default:
		panic(fmt.Sprintf("format: unhandled content kind %q", rec.Kind()))
	}
}

func (f Formatter) workflow(r content.Workflow) blockkit.Message {
	section := blockkit.NewSection(titleAndDescription(r.Title, r.Description))
	if r.ImageURL != nil {
		section.WithImage(*r.ImageURL, r.Title)
	}
	return blockkit.Message{
		Fallback: "Novo workflow publicado: " + r.Title,
		Blocks: []blockkit.Block{
			blockkit.NewHeader("🚀 Novo Workflow Publicado!"),
			section,
			blockkit.NewActions(
				blockkit.PrimaryButton("Ver Workflow", f.url("workflows", r.Slug)),
			),
		},
	}
}

func (f Formatter) server(r content.Server) blockkit.Message {
	section := blockkit.NewSection(titleAndDescription(r.Title, r.Description))
	if r.ImageURL != nil {
		section.WithImage(*r.ImageURL, r.Title)
	}

	buttons := []blockkit.Button{
		blockkit.PrimaryButton("Ver Server", f.url("servers", r.Slug)),
	}
	if r.RepositoryURL != nil {
		buttons = append(buttons, blockkit.LinkButton("Repositório", *r.RepositoryURL))
	}

	blocks := []blockkit.Block{
		blockkit.NewHeader("🧩 Novo MCP Server Publicado!"),
		section,
		blockkit.NewActions(buttons...),
	}
	if len(r.Tags) > 0 {
		tags := r.Tags
		if len(tags) > maxDisplayTags {
			tags = tags[:maxDisplayTags]
		}
		elements := make([]*blockkit.Text, 0, len(tags))
		for _, tag := range tags {
			elements = append(elements, blockkit.Mrkdwn("`"+tag+"`"))
		}
		blocks = append(blocks, blockkit.NewContext(elements...))
	}

	return blockkit.Message{
		Fallback: "Novo MCP server publicado: " + r.Title,
		Blocks:   blocks,
	}
}

func (f Formatter) article(r content.Article) blockkit.Message {
	section := blockkit.NewSection(titleAndDescription(r.Title, articleExcerpt(r)))
	if r.ImageURL != nil {
		section.WithImage(*r.ImageURL, r.Title)
	}
	return blockkit.Message{
		Fallback: "Novo artigo publicado: " + r.Title,
		Blocks: []blockkit.Block{
			blockkit.NewHeader("📝 Novo Artigo Publicado!"),
			section,
			blockkit.NewActions(
				blockkit.PrimaryButton("Ler Artigo", f.url("articles", r.Slug)),
			),
		},
	}
}

// articleExcerpt prefers the explicit excerpt and otherwise derives one
// from the opening of the full body. The trailing marker is only added
// when the body actually exceeds the excerpt budget.
func articleExcerpt(r content.Article) *string {
	if r.Excerpt != nil {
		return r.Excerpt
	}
	if r.Body == nil {
		return nil
	}
	body := *r.Body
	if len(body) <= excerptLength {
		return &body
	}
	excerpt := body[:excerptLength] + "..."
	return &excerpt
}

// titleAndDescription renders the bold title line, followed by the
// description only when one is present. The combined body is held to the
// platform section budget.
func titleAndDescription(title string, description *string) string {
	body := "*" + title + "*"
	if description != nil {
		body += "\n" + *description
	}
	return blockkit.TruncateDefault(body)
}

func (f Formatter) url(collection, slug string) string {
	return f.BaseURL + "/" + collection + "/" + slug
}
