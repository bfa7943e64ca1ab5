package client

import (
	"context"
	"os"
	"sync"

	"github.com/seed-hypermedia/go-hmblob/api"
)

// EnvServer names the environment variable read by [Default].
const EnvServer = "SEED_SERVER"

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns a process wide client for the server in $SEED_SERVER, or
// [DefaultBaseURL] when it is unset. The client is built on first use.
func Default() (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient != nil {
		return defaultClient, nil
	}
	base := os.Getenv(EnvServer)
	if base == "" {
		base = DefaultBaseURL
	}
	c, err := New(WithBaseURL(base))
	if err != nil {
		return nil, err
	}
	defaultClient = c
	return c, nil
}

// ResetDefault discards the client built by [Default], so the next call
// reads the environment again.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = nil
}

// Request calls [Client.Request] on the default client.
func Request(ctx context.Context, key api.Key, input any) (any, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Request(ctx, key, input)
}

// Publish calls [Client.Publish] on the default client.
func Publish(ctx context.Context, in api.PublishBlobsInput) (api.PublishBlobsOutput, error) {
	c, err := Default()
	if err != nil {
		return api.PublishBlobsOutput{}, err
	}
	return c.Publish(ctx, in)
}
