package kafka

import (
	"LittleStories/internal/api/config"
	"LittleStories/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Publisher 发送故事事件，发送失败只记录日志，不影响主流程
type Publisher interface {
	Publish(ctx context.Context, event *StoryEvent)
	Close() error
}

type SaramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSaramaPublisher(producer sarama.SyncProducer, topic string) *SaramaPublisher {
	return &SaramaPublisher{producer: producer, topic: topic}
}

// NewPublisher 未配置 broker 时返回空实现
func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Warn("Kafka brokers not configured, story events disabled")
		return NopPublisher{}, nil
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return NewSaramaPublisher(producer, cfg.StoryTopic), nil
}

func (s *SaramaPublisher) Publish(ctx context.Context, event *StoryEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal story event error", "err", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		// 同一故事的事件落在同一分区，保证顺序
		Key:   sarama.StringEncoder(event.StoryID),
		Value: sarama.ByteEncoder(value),
	}
	if traceID := logger.TraceID(ctx); traceID != "" {
		msg.Headers = []sarama.RecordHeader{{Key: []byte(logger.TraceIDKey), Value: []byte(traceID)}}
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		log.ErrorContext(ctx, "publish story event error", "type", event.Type, "story_id", event.StoryID, "err", err)
		return
	}
	log.DebugContext(ctx, "story event published", "type", event.Type, "partition", partition, "offset", offset)
}

func (s *SaramaPublisher) Close() error {
	return s.producer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *StoryEvent) {}

func (NopPublisher) Close() error { return nil }
