package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vibeflow/notifier/internal/content"
)

var validate = validator.New()

// publishRequest is the producer-facing payload: a tagged content record.
// Only the fields matching Kind are read.
type publishRequest struct {
	Kind          string            `json:"kind" validate:"required,oneof=workflow mcp_server article news_batch"`
	Title         string            `json:"title" validate:"required_unless=Kind news_batch"`
	Slug          string            `json:"slug" validate:"required_unless=Kind news_batch"`
	Description   *string           `json:"description"`
	ImageURL      *string           `json:"image_url"`
	Excerpt       *string           `json:"excerpt"`
	Body          *string           `json:"body"`
	RepositoryURL *string           `json:"repository_url"`
	Tags          []string          `json:"tags"`
	Items         []publishNewsItem `json:"items" validate:"dive"`
}

type publishNewsItem struct {
	Title   string  `json:"title" validate:"required"`
	Summary *string `json:"summary"`
	Source  string  `json:"source" validate:"required"`
	URL     string  `json:"url" validate:"required,url"`
}

// record converts the request into its content record.
func (p publishRequest) record() content.Record {
	switch content.Kind(p.Kind) {
	case content.KindWorkflow:
		return content.Workflow{Title: p.Title, Slug: p.Slug, Description: p.Description, ImageURL: p.ImageURL}
	case content.KindServer:
		return content.Server{Title: p.Title, Slug: p.Slug, Description: p.Description, ImageURL: p.ImageURL, RepositoryURL: p.RepositoryURL, Tags: p.Tags}
	case content.KindArticle:
		return content.Article{Title: p.Title, Slug: p.Slug, Excerpt: p.Excerpt, Body: p.Body, ImageURL: p.ImageURL}
	case content.KindNewsBatch:
		items := make([]content.NewsItem, 0, len(p.Items))
		for _, it := range p.Items {
			items = append(items, content.NewsItem{Title: it.Title, Summary: it.Summary, Source: it.Source, URL: it.URL})
		}
		return content.NewsBatch{Items: items}
	}
	return nil
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req publishRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rec := req.record()
	if rec == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported kind"})
		return
	}

	msg := h.formatter.Format(rec)
	entry, err := h.dispatcher.Announce(r.Context(), h.cfg.AnnounceChannel, msg)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error(), "delivery": entry})
		return
	}
	writeJSON(w, http.StatusAccepted, entry)
}
