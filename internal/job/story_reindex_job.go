package job

import (
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/es"
	"LittleStories/internal/pkg/logger"
	"LittleStories/internal/pkg/redis"
	"LittleStories/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	reindexBatchSize = 200
	reindexLockTTL   = 30 * time.Minute
)

// StoryReindexJob 定期把全部公开故事重新写入 ES，修复消费丢失造成的偏差
type StoryReindexJob struct {
	storyDBRepo repository.StoryRepo
	storyESRepo es.StoryRepo
}

func NewStoryReindexJob(storyDBRepo repository.StoryRepo, storyESRepo es.StoryRepo) *StoryReindexJob {
	return &StoryReindexJob{
		storyDBRepo: storyDBRepo,
		storyESRepo: storyESRepo,
	}
}

func (s *StoryReindexJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "job-reindex-"+uuid.NewString())
	if _, err := s.Reindex(ctx); err != nil {
		log.ErrorContext(ctx, "story reindex failed", "err", err)
	}
}

// Reindex 多实例部署时只有拿到锁的实例执行，返回写入的文档数
func (s *StoryReindexJob) Reindex(ctx context.Context) (int, error) {
	lockValue := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.StoryReindexLock, lockValue, reindexLockTTL, 1)
	if err != nil {
		return 0, err
	}
	if !ok {
		log.InfoContext(ctx, "story reindex running elsewhere, skipped")
		return 0, nil
	}
	defer redis.UnLock(context.WithoutCancel(ctx), consts.StoryReindexLock, lockValue)

	if err = s.storyESRepo.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	version := time.Now().UnixMilli()
	total := 0
	afterID := ""
	for {
		stories, err := s.storyDBRepo.ListPublicStoriesAfter(ctx, afterID, reindexBatchSize)
		if err != nil {
			return total, err
		}
		for _, story := range stories {
			if err = s.storyESRepo.IndexStory(ctx, es.NewStoryES(story), version); err != nil {
				log.WarnContext(ctx, "reindex story failed", "story_id", story.StoryID, "err", err)
				continue
			}
			total++
		}
		if len(stories) < reindexBatchSize {
			break
		}
		afterID = stories[len(stories)-1].StoryID
	}

	log.InfoContext(ctx, "story reindex finished", "count", total)
	return total, nil
}
