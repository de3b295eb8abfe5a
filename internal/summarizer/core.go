package summarizer

import (
	"context"
	"fmt"
)

// Core is the display-string boundary over Service. Its methods never
// return errors and never panic; every failure becomes a message.
type Core struct {
	svc *Service
}

func NewCore(svc *Service) *Core {
	return &Core{svc: svc}
}

// SummarizeWebsite returns (summary, context). On failure the summary is the
// error message and the context is empty.
func (c *Core) SummarizeWebsite(ctx context.Context, url string) (summary, retained string) {
	defer recoverInto(OpSummarizeWeb, &summary, &retained)
	res, err := c.svc.SummarizeURL(ctx, url)
	if err != nil {
		return Message(err), ""
	}
	return res.Summary, res.Context
}

// SummarizePDF returns (summary, context) for an uploaded PDF.
func (c *Core) SummarizePDF(ctx context.Context, data []byte) (summary, retained string) {
	defer recoverInto(OpSummarizePDF, &summary, &retained)
	res, err := c.svc.SummarizePDF(ctx, data)
	if err != nil {
		return Message(err), ""
	}
	return res.Summary, res.Context
}

// AnswerQuestion returns the answer, or the message for why there is none.
func (c *Core) AnswerQuestion(ctx context.Context, question, contextText string) (answer string) {
	var discard string
	defer recoverInto(OpAnswer, &answer, &discard)
	res, err := c.svc.Answer(ctx, question, contextText)
	if err != nil {
		return Message(err)
	}
	return res
}

func recoverInto(op Op, msg, retained *string) {
	if r := recover(); r != nil {
		*msg = Message(&Error{Kind: KindInvocation, Op: op, Err: fmt.Errorf("internal error: %v", r)})
		*retained = ""
	}
}
