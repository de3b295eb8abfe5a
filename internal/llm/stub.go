package llm

import (
	"context"
	"fmt"
	"strings"
)

const stubWordLimit = 60

// StubClient is a deterministic offline client. It echoes the leading words
// of the prompt so local runs exercise the whole pipeline without an API key.
type StubClient struct{}

func NewStubClient() *StubClient {
	return &StubClient{}
}

func (StubClient) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	words := strings.Fields(req.Prompt)
	if len(words) > stubWordLimit {
		words = words[:stubWordLimit]
	}
	return Text(fmt.Sprintf("[%s] %s", req.Template, strings.Join(words, " "))), nil
}
