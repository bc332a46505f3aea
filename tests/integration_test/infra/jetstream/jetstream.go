package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const image = "nats:2.10-alpine"

// SetupContainer starts a nats server with JetStream enabled and returns it
// with its nats:// url. It panics on failure; callers are TestMain functions.
func SetupContainer(ctx context.Context) (testcontainers.Container, string) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"4222/tcp"},
			Cmd:          []string{"-js"},
			WaitingFor:   wait.ForListeningPort("4222/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		panic(fmt.Errorf("start nats container: %w", err))
	}

	endpoint, err := c.PortEndpoint(ctx, "4222/tcp", "nats")
	if err != nil {
		panic(fmt.Errorf("resolve nats endpoint: %w", err))
	}
	return c, endpoint
}
