package jetstream

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ssuji15/pokecli/internal/config"
	"github.com/ssuji15/pokecli/internal/service/logger"
)

func NewJetStreamClient(cfg *config.NatsConfig) (*nats.Conn, error) {
	return nats.Connect(cfg.URL,
		nats.MaxReconnects(3),
		nats.ReconnectWait(500*time.Millisecond),
		nats.Name("pokecli"),
		nats.ReconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Log.Warn().Err(err).Msg("NATs reconnected")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Log.Warn().Err(err).Msg("NATs disconnected")
		}),
	)
}
