package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls the Chat Completions API of OpenAI or any
// OpenAI-compatible host.
type OpenAIClient struct {
	model       openai.ChatModel
	client      *openai.Client
	timeout     time.Duration
	temperature float64
}

// OpenAIOptions tunes the client. Zero values fall back to defaults; a nil
// Temperature means the default, an explicit 0 is kept.
type OpenAIOptions struct {
	BaseURL     string
	Timeout     time.Duration
	Temperature *float64
}

const (
	defaultChatTimeout     = 30 * time.Second
	defaultChatTemperature = 0.2
)

// NewOpenAIClient builds a client; the base URL defaults to api.openai.com.
func NewOpenAIClient(apiKey string, model openai.ChatModel, opts OpenAIOptions) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultChatTimeout
	}
	temperature := defaultChatTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		model:       model,
		client:      &cli,
		timeout:     opts.Timeout,
		temperature: temperature,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	if c == nil || c.client == nil {
		return Response{}, fmt.Errorf("nil openai client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    buildMessages(req.Prompt),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return Response{}, fmt.Errorf("openai: request exceeded %v: %w", c.timeout, context.DeadlineExceeded)
		}
		return Response{}, err
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("openai: no choices returned")
	}
	msg := resp.Choices[0].Message
	if msg.Content == "" {
		// Refusals and tool-call-only replies carry no text; hand back the
		// raw message so the caller still has something to show.
		return Raw(msg.RawJSON()), nil
	}
	return Text(msg.Content), nil
}

func buildMessages(user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
