package composer

import (
	"context"
	"fmt"
)

const (
	assistantReplyTemplate = `Great idea! I'll help you create a LinkedIn post about "%s". Here's what I've generated for you. Feel free to ask me to modify anything!`

	postContentTemplate = "Exciting insights about %s! 🚀\n\n" +
		"This is such an important topic in today's landscape. Here are my key takeaways:\n\n" +
		"• Innovation drives progress\n" +
		"• Collaboration fuels success\n" +
		"• Continuous learning is essential\n\n" +
		"What's your experience with this? Would love to hear your thoughts in the comments!\n\n" +
		"#Innovation #Growth #Learning #Professional"
)

// Reply is one assistant turn: the chat message and the post content that replaces the candidate's.
type Reply struct {
	Message string
	Content string
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (Reply, error)
}

type GeneratorFunc func(ctx context.Context, prompt string) (Reply, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (Reply, error) {
	return f(ctx, prompt)
}

// TemplateGenerator substitutes the prompt verbatim into fixed templates.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(ctx context.Context, prompt string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	return Reply{
		Message: fmt.Sprintf(assistantReplyTemplate, prompt),
		Content: fmt.Sprintf(postContentTemplate, prompt),
	}, nil
}
