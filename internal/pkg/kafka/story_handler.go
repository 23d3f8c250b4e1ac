package kafka

import (
	"LittleStories/internal/pkg/es"
	"LittleStories/internal/pkg/logger"
	"LittleStories/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// StoryIndexHandler 消费故事事件，将数据库中的最新状态同步到 ES
type StoryIndexHandler struct {
	storyDBRepo repository.StoryRepo
	storyESRepo es.StoryRepo
}

func NewStoryIndexHandler(storyDBRepo repository.StoryRepo, storyESRepo es.StoryRepo) *StoryIndexHandler {
	return &StoryIndexHandler{
		storyDBRepo: storyDBRepo,
		storyESRepo: storyESRepo,
	}
}

func (s *StoryIndexHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("story consumer setup")
	return nil
}

func (s *StoryIndexHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("story consumer cleanup")
	return nil
}

func (s *StoryIndexHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-story consume claim", "partition", claim.Partition())
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-story process batch error", "err", err)
		return err
	}
	log.Info("topic-story consume claim end")
	return nil
}

func (s *StoryIndexHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToStoryEvent(msg)
	if err != nil {
		// 无法解析的消息重试也没有意义，直接跳过
		log.Warn("skip malformed story event", "offset", msg.Offset, "err", err)
		return nil
	}
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == logger.TraceIDKey {
			ctx = logger.WithTraceID(ctx, string(h.Value))
		}
	}

	if event.Type == StoryDeleted {
		return s.storyESRepo.DeleteStory(ctx, event.StoryID)
	}

	story, err := s.storyDBRepo.GetStory(ctx, event.StoryID)
	if err != nil {
		return err
	}
	if story == nil || !story.IsPublic {
		return s.storyESRepo.DeleteStory(ctx, event.StoryID)
	}

	log.DebugContext(ctx, "indexing story", "story_id", story.StoryID, "event", event.Type)
	return s.storyESRepo.IndexStory(ctx, es.NewStoryES(story), event.OccurredAt)
}
