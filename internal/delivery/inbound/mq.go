package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/goroutine"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/messaging"
	"github.com/antonvb/authgate/internal/pkg/uid"
	"github.com/antonvb/authgate/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHanlder := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.delivery.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubusb
		handler            messaging.Handler
	}{
		{
			name:               event.OtpIssuedConsumerDelivery,
			topic:              event.OtpIssuedDestination,
			nsqConsumerName:    event.OtpIssuedConsumerDelivery,
			natsConsumerName:   event.OtpIssuedConsumerDelivery,
			kafkaConsumerName:  event.OtpIssuedConsumerDelivery,
			pubsubConsumerName: event.OtpIssuedConsumerDelivery,
			handler:            mqHanlder.OtpIssuedDelivery,
		},
		{
			name:               event.UserCreatedConsumerDelivery,
			topic:              event.UserCreatedDestination,
			nsqConsumerName:    event.UserCreatedConsumerDelivery,
			natsConsumerName:   event.UserCreatedConsumerDelivery,
			kafkaConsumerName:  event.UserCreatedConsumerDelivery,
			pubsubConsumerName: event.UserCreatedConsumerDelivery,
			handler:            mqHanlder.UserCreatedDelivery,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
