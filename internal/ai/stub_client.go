package ai

import "context"

// StubClient does not make real requests.
type StubClient struct {
	Reply string
	Err   error

	Requests []CompletionRequest
}

func NewStubClient(reply string) *StubClient { return &StubClient{Reply: reply} }

func (c *StubClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	c.Requests = append(c.Requests, req)
	if c.Err != nil {
		return "", c.Err
	}
	return c.Reply, nil
}
