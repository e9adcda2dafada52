// Package content defines the closed set of content records the producer
// system hands to the notifier. Optional fields are pointers; an absent
// value suppresses the corresponding element during formatting and is never
// rendered as a literal placeholder.
package content

// Kind tags a content record variant.
type Kind string

const (
	KindWorkflow     Kind = "workflow"
	KindServer       Kind = "mcp_server"
	KindArticle      Kind = "article"
	KindNewsBatch    Kind = "news_batch"
	KindMemberJoined Kind = "member_joined"
)

// Record is the tagged union of publishable content. The set is closed:
// the formatter matches exhaustively over the implementations below.
type Record interface {
	Kind() Kind
}

// Workflow is a newly published workflow.
type Workflow struct {
	Title       string
	Slug        string
	Description *string
	ImageURL    *string
}

func (Workflow) Kind() Kind { return KindWorkflow }

// Server is a newly published MCP server listing.
type Server struct {
	Title         string
	Slug          string
	Description   *string
	ImageURL      *string
	RepositoryURL *string
	Tags          []string
}

func (Server) Kind() Kind { return KindServer }

// Article is a newly published article. When Excerpt is absent the
// formatter derives one from the first 200 characters of Body.
type Article struct {
	Title    string
	Slug     string
	Excerpt  *string
	Body     *string
	ImageURL *string
}

func (Article) Kind() Kind { return KindArticle }

// NewsItem is one synchronized external news entry.
type NewsItem struct {
	Title   string
	Summary *string
	Source  string
	URL     string
}

// NewsBatch is a batch of synchronized news items, in sync order.
type NewsBatch struct {
	Items []NewsItem
}

func (NewsBatch) Kind() Kind { return KindNewsBatch }

// MemberJoined carries no payload; it triggers the static welcome message.
// The joining user's identity travels with the dispatch, not the record.
type MemberJoined struct{}

func (MemberJoined) Kind() Kind { return KindMemberJoined }
