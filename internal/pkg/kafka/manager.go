package kafka

import (
	"LittleStories/internal/api/config"
	"LittleStories/internal/pkg/es"
	"LittleStories/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	storyConsumer sarama.ConsumerGroup
	storyHandler  sarama.ConsumerGroupHandler
	storyTopic    string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, storyDBRepo repository.StoryRepo, storyESRepo es.StoryRepo) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	storyConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.StoryGroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		storyConsumer: storyConsumer,
		storyHandler:  NewStoryIndexHandler(storyDBRepo, storyESRepo),
		storyTopic:    cfg.Kafka.StoryTopic,
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.storyConsumer.Errors() {
			log.Error("story consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("Story consumer started", "topic", m.storyTopic)
		for {
			if err := m.storyConsumer.Consume(ctx, []string{m.storyTopic}, m.storyHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.storyConsumer.Close(); err != nil {
		log.Error("Failed to close story consumer", "err", err)
		return err
	}
	return nil
}
