package kafka

import (
	"errors"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

type StoryEventType string

const (
	StoryCreated StoryEventType = "story.created"
	StoryUpdated StoryEventType = "story.updated"
	StoryDeleted StoryEventType = "story.deleted"
	StoryClaimed StoryEventType = "story.claimed"
	StoryRated   StoryEventType = "story.rated"
)

var ErrEventInvalid = errors.New("story event invalid")

// StoryEvent 故事变更通知，消费方以数据库当前状态为准，事件只携带 ID
type StoryEvent struct {
	Type       StoryEventType `json:"type"`
	StoryID    string         `json:"story_id"`
	UserID     string         `json:"user_id,omitempty"`
	OccurredAt int64          `json:"occurred_at"`
}

func NewStoryEvent(eventType StoryEventType, storyID, userID string) *StoryEvent {
	return &StoryEvent{
		Type:       eventType,
		StoryID:    storyID,
		UserID:     userID,
		OccurredAt: time.Now().UnixMilli(),
	}
}

// ToStoryEvent 将kafka消息转换为故事事件
func ToStoryEvent(msg *sarama.ConsumerMessage) (*StoryEvent, error) {
	var event StoryEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("unmarshal story event error", "err", err)
		return nil, err
	}
	if event.StoryID == "" || event.Type == "" {
		return nil, ErrEventInvalid
	}
	return &event, nil
}
