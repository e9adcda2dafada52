package format

import "github.com/vibeflow/notifier/internal/blockkit"

// Workspace navigation channels mentioned in the welcome message.
const (
	channelNovidades = "<#C07UX2K4NQ1|novidades>"
	channelWorkflows = "<#C07UXBM9TL3|workflows>"
	channelDuvidas   = "<#C07UY5R2WD8|duvidas>"
)

// Welcome renders the guided direct message sent to a newly joined member.
// It takes no parameters and every invocation is byte-identical.
func Welcome() blockkit.Message {
	return blockkit.Message{
		Fallback: "Bem-vindo(a) ao VibeFlow!",
		Blocks: []blockkit.Block{
			blockkit.NewHeader("👋 Bem-vindo(a) ao VibeFlow!"),
			blockkit.NewSection("Que bom ter você aqui! Para começar, dê uma olhada nos canais " +
				channelNovidades + ", " + channelWorkflows + " e " + channelDuvidas + "."),
			blockkit.NewSection("Em " + channelNovidades + " publicamos os lançamentos e as novidades de IDEs com IA, " +
				"em " + channelWorkflows + " a comunidade compartilha workflows prontos para usar, e " +
				"em " + channelDuvidas + " você pode perguntar qualquer coisa para o time e para os outros membros."),
		},
	}
}
