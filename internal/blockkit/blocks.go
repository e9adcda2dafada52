// Package blockkit models the structured message format accepted by the
// Slack Block Kit surface: an ordered list of typed blocks plus a plain-text
// fallback for notification surfaces that cannot render blocks.
package blockkit

import "encoding/json"

// Text object types.
const (
	TextPlain  = "plain_text"
	TextMrkdwn = "mrkdwn"
)

// Message is the unit of output for a single delivery. Every message
// dispatched to a user-visible channel must carry a non-empty Fallback.
type Message struct {
	Fallback string  `json:"text,omitempty"`
	Blocks   []Block `json:"blocks,omitempty"`
}

// Block is a closed set of visual block variants. Every block carries its
// variant tag in the marshaled `type` field.
type Block interface {
	blockType() string
}

// Text is a Block Kit text object. Type is always plain_text or mrkdwn.
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Plain builds a plain_text object with emoji rendering enabled.
func Plain(s string) *Text {
	return &Text{Type: TextPlain, Text: s, Emoji: true}
}

// Mrkdwn builds a rich-formatted text object.
func Mrkdwn(s string) *Text {
	return &Text{Type: TextMrkdwn, Text: s}
}

// Header is a single styled title block.
type Header struct {
	Type string `json:"type"`
	Text *Text  `json:"text"`
}

// NewHeader builds a header block with plain_text content.
func NewHeader(title string) *Header {
	return &Header{Type: "header", Text: Plain(title)}
}

func (*Header) blockType() string { return "header" }

// Section is a body text block, optionally paired with one image accessory.
// An absent accessory is omitted from the wire form entirely.
type Section struct {
	Type      string `json:"type"`
	Text      *Text  `json:"text"`
	Accessory *Image `json:"accessory,omitempty"`
}

// NewSection builds a section block with mrkdwn content.
func NewSection(body string) *Section {
	return &Section{Type: "section", Text: Mrkdwn(body)}
}

// WithImage attaches an image accessory and returns the section.
func (s *Section) WithImage(url, alt string) *Section {
	s.Accessory = &Image{Type: "image", ImageURL: url, AltText: alt}
	return s
}

func (*Section) blockType() string { return "section" }

// Image is an image element usable as a section accessory.
type Image struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
	AltText  string `json:"alt_text"`
}

// Actions holds an ordered list of interactive elements.
type Actions struct {
	Type     string   `json:"type"`
	Elements []Button `json:"elements"`
}

// NewActions builds an actions block from the given buttons.
func NewActions(buttons ...Button) *Actions {
	return &Actions{Type: "actions", Elements: buttons}
}

func (*Actions) blockType() string { return "actions" }

// Button is a link button element.
type Button struct {
	Type  string `json:"type"`
	Text  *Text  `json:"text"`
	URL   string `json:"url"`
	Style string `json:"style,omitempty"`
}

// LinkButton builds a plain link button.
func LinkButton(label, url string) Button {
	return Button{Type: "button", Text: Plain(label), URL: url}
}

// PrimaryButton builds a link button with the primary style.
func PrimaryButton(label, url string) Button {
	b := LinkButton(label, url)
	b.Style = "primary"
	return b
}

// Context holds an ordered list of small auxiliary text elements.
type Context struct {
	Type     string  `json:"type"`
	Elements []*Text `json:"elements"`
}

// NewContext builds a context block from the given elements.
func NewContext(elements ...*Text) *Context {
	return &Context{Type: "context", Elements: elements}
}

func (*Context) blockType() string { return "context" }

// Encode marshals the message to its wire form.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}
