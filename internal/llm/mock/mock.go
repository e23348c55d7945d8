// Package mock provides a test double for the llm.Client interface.
//
// Use Client in unit tests to verify the requests the pipeline sends and
// to feed controlled responses without a live model backend.
package mock

import (
	"context"
	"sync"

	"github.com/zalint/text-corrector/internal/llm"
)

// Call records a single invocation of Complete.
type Call struct {
	// Req is the request passed to Complete.
	Req llm.Request
}

// Client is a mock implementation of llm.Client.
//
// Responses are consumed from the Responses queue in order; when the queue
// is exhausted the last element is repeated. Set Err to inject a call
// failure instead.
type Client struct {
	mu sync.Mutex

	// Responses is the queue of reply texts returned by Complete.
	Responses []string

	// Err, if non-nil, is returned as the error from every Complete call.
	Err error

	// Calls records every invocation of Complete in order.
	Calls []Call

	next int
}

// Complete records the call and returns the next queued response.
func (c *Client) Complete(_ context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, Call{Req: req})
	if c.Err != nil {
		return "", c.Err
	}
	if len(c.Responses) == 0 {
		return "", nil
	}
	resp := c.Responses[c.next]
	if c.next < len(c.Responses)-1 {
		c.next++
	}
	return resp, nil
}

// Model returns a fixed placeholder model name.
func (c *Client) Model(role llm.Role) string {
	return "mock-" + string(role)
}

// Close is a no-op.
func (c *Client) Close() error {
	return nil
}

// CallCount returns how many times Complete was invoked. Thread-safe.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

var _ llm.Client = (*Client)(nil)
