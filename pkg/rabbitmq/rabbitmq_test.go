package rabbitmq

import (
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishWithoutChannel(t *testing.T) {
	c := &Client{queue: DefaultQueue, log: zap.NewNop().Sugar()}
	err := c.Publish("", "build.created", []byte(`{}`))
	require.Error(t, err)
}

func TestConsumeWithoutChannel(t *testing.T) {
	c := &Client{queue: DefaultQueue, log: zap.NewNop().Sugar()}
	require.Error(t, c.ConsumeEvents(LogEvents(zap.NewNop().Sugar())))
}

func TestCloseWithoutConnection(t *testing.T) {
	c := &Client{}
	require.NoError(t, c.Close())
}

func TestLogEventsAcks(t *testing.T) {
	h := LogEvents(zap.NewNop().Sugar())
	require.NoError(t, h(amqp.Delivery{Type: "team.created", Body: []byte(`{"teamID":"t1"}`)}))
}
