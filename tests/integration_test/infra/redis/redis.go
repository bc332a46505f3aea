package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const image = "redis:7-alpine"

// SetupContainer starts a throwaway redis and returns it with its host:port.
// It panics on failure; callers are TestMain functions.
func SetupContainer(ctx context.Context) (testcontainers.Container, string) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		panic(fmt.Errorf("start redis container: %w", err))
	}

	endpoint, err := c.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		panic(fmt.Errorf("resolve redis endpoint: %w", err))
	}
	return c, endpoint
}
