// Package dockerutil builds, tags, and pushes bundle container images
// through the Docker Engine API.
package dockerutil

import (
	"github.com/docker/docker/client"
)

type Client struct {
	inner *client.Client
}

// New connects to the Docker daemon named by the usual DOCKER_* environment
// variables and negotiates an API version with it.
func New(opts ...client.Opt) (*Client, error) {
	opts = append([]client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}, opts...)
	inner, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{inner: inner}, nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}
