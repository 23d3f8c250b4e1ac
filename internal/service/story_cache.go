package service

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// StoryCache 首页分页与故事详情的 Redis 缓存，缓存内容不含任何与访问者相关的字段
// 列表通过版本号整体失效，读写失败只记录日志
type StoryCache struct {
	listTTL   time.Duration
	detailTTL time.Duration
}

func NewStoryCache(listTTL, detailTTL time.Duration) *StoryCache {
	return &StoryCache{listTTL: listTTL, detailTTL: detailTTL}
}

func (s *StoryCache) listKey(ctx context.Context, page int) (string, error) {
	version, err := redis.GetValue(ctx, consts.StoryListVersionKey)
	if err != nil {
		return "", err
	}
	if version == "" {
		version = "0"
	}
	return consts.StoryListKey + version + ":" + strconv.Itoa(page), nil
}

func (s *StoryCache) GetPage(ctx context.Context, page int) *dto.StoryPageDTO {
	if s == nil {
		return nil
	}
	key, err := s.listKey(ctx, page)
	if err != nil {
		log.WarnContext(ctx, "story list cache unavailable", "err", err)
		return nil
	}
	var result *dto.StoryPageDTO
	if !s.load(ctx, key, &result) {
		return nil
	}
	return result
}

func (s *StoryCache) SetPage(ctx context.Context, page int, value *dto.StoryPageDTO) {
	if s == nil {
		return
	}
	key, err := s.listKey(ctx, page)
	if err != nil {
		return
	}
	s.store(ctx, key, value, s.listTTL)
}

func (s *StoryCache) GetStory(ctx context.Context, storyID string) *dto.StoryDTO {
	if s == nil {
		return nil
	}
	var result *dto.StoryDTO
	if !s.load(ctx, consts.StoryDetailKey+storyID, &result) {
		return nil
	}
	return result
}

func (s *StoryCache) SetStory(ctx context.Context, value *dto.StoryDTO) {
	if s == nil {
		return
	}
	s.store(ctx, consts.StoryDetailKey+value.StoryID, value, s.detailTTL)
}

// Invalidate 令所有列表页失效，并删除给定故事的详情缓存
func (s *StoryCache) Invalidate(ctx context.Context, storyIDs ...string) {
	if s == nil {
		return
	}
	if _, err := redis.Incr(ctx, consts.StoryListVersionKey); err != nil {
		log.WarnContext(ctx, "bump story list version failed", "err", err)
	}
	if len(storyIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(storyIDs))
	for _, id := range storyIDs {
		keys = append(keys, consts.StoryDetailKey+id)
	}
	if err := redis.DeleteKey(ctx, keys...); err != nil {
		log.WarnContext(ctx, "delete story detail cache failed", "err", err)
	}
}

func (s *StoryCache) load(ctx context.Context, key string, dest any) bool {
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "read story cache failed", "key", key, "err", err)
		return false
	}
	if value == "" {
		return false
	}
	if err = json.Unmarshal([]byte(value), dest); err != nil {
		log.WarnContext(ctx, "decode story cache failed", "key", key, "err", err)
		return false
	}
	return true
}

func (s *StoryCache) store(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err = redis.SetWithExpiration(ctx, key, string(data), ttl); err != nil {
		log.WarnContext(ctx, "write story cache failed", "key", key, "err", err)
	}
}
