package service

import (
	"context"
	"encoding/json"

	"edumentor-be/internal/dto"
	"edumentor-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the session-activity topic and writes an audit line
// per event.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.SessionActivityMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("audit", "failed to unmarshal activity message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	cs.log.Info("audit", "session activity", map[string]interface{}{
		"kind":       payload.Kind,
		"session_id": payload.SessionId.String(),
		"user_id":    payload.UserId.String(),
		"detail":     payload.Detail,
	})
	msg.Ack()
}
