package format

import (
	"fmt"

	"github.com/vibeflow/notifier/internal/blockkit"
	"github.com/vibeflow/notifier/internal/content"
)

// newsBatch renders a synchronized batch of news items. The list is capped
// at maxNewsItems in input order, and both the header and the fallback
// reflect the retained count, not the original length.
func (f Formatter) newsBatch(r content.NewsBatch) blockkit.Message {
	items := r.Items
	if len(items) > maxNewsItems {
		items = items[:maxNewsItems]
	}

	count := fmt.Sprintf("%d Novidades de IDEs com IA", len(items))
	blocks := make([]blockkit.Block, 0, len(items)+2)
	blocks = append(blocks, blockkit.NewHeader("📰 "+count))
	for _, item := range items {
		blocks = append(blocks, newsItemSection(item))
	}
	blocks = append(blocks, blockkit.NewContext(
		blockkit.Mrkdwn(fmt.Sprintf("<%s/news|Ver todas as novidades>", f.BaseURL)),
	))

	return blockkit.Message{
		Fallback: count,
		Blocks:   blocks,
	}
}

func newsItemSection(item content.NewsItem) *blockkit.Section {
	body := "*" + item.Title + "*"
	if item.Summary != nil {
		body += "\n" + *item.Summary
	}
	body += fmt.Sprintf("\n_%s_ • <%s|Ler mais>", item.Source, item.URL)
	return blockkit.NewSection(blockkit.TruncateDefault(body))
}
