package es

import (
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
	pkgerrors "github.com/pkg/errors"
)

// MaxSearchDepth 超过该深度的翻页直接返回空
const MaxSearchDepth = 1000

type StoryRepo interface {
	EnsureIndex(ctx context.Context) error
	IndexStory(ctx context.Context, story *StoryES, version int64) error
	DeleteStory(ctx context.Context, storyID string) error
	SearchStories(ctx context.Context, queryText string, from, size int) ([]*StoryES, int64, error)
}

type StoryRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewStoryRepo(client *elasticsearch.TypedClient, index string) StoryRepo {
	return &StoryRepoImpl{client: client, index: index}
}

// EnsureIndex 索引不存在时按固定 mapping 创建
func (s *StoryRepoImpl) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.index).Do(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "check story index")
	}
	if exists {
		return nil
	}

	_, err = s.client.Indices.Create(s.index).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"story_id":        types.NewKeywordProperty(),
				"user_id":         types.NewKeywordProperty(),
				"author_username": types.NewKeywordProperty(),
				"title":           types.NewTextProperty(),
				"plain_content":   types.NewTextProperty(),
				"excerpt":         types.NewTextProperty(),
				"genre":           types.NewKeywordProperty(),
				"avg_rating":      types.NewFloatNumberProperty(),
				"rating_count":    types.NewIntegerNumberProperty(),
				"created_at":      types.NewDateProperty(),
				"updated_at":      types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		// 并发创建时可能已被其他实例创建
		if errors.As(err, &e) && e.Status == 400 && e.ErrorCause.Type == "resource_already_exists_exception" {
			return nil
		}
		return pkgerrors.Wrap(err, "create story index")
	}
	return nil
}

// IndexStory 使用外部版本号写入，旧版本的写入被 ES 拒绝后视为成功
func (s *StoryRepoImpl) IndexStory(ctx context.Context, story *StoryES, version int64) error {
	_, err := s.client.Index(s.index).
		Id(story.StoryID).
		Document(story).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return pkgerrors.Wrapf(err, "index story %s", story.StoryID)
	}
	return nil
}

func (s *StoryRepoImpl) DeleteStory(ctx context.Context, storyID string) error {
	_, err := s.client.Delete(s.index, storyID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return pkgerrors.Wrapf(err, "delete story %s", storyID)
	}
	return nil
}

// SearchStories 标题、正文与类型的全文检索，相关度相同时按评分排序
func (s *StoryRepoImpl) SearchStories(ctx context.Context, queryText string, from, size int) ([]*StoryES, int64, error) {
	if from >= MaxSearchDepth || queryText == "" {
		return []*StoryES{}, 0, nil
	}

	req := s.client.Search().
		Index(s.index).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Should: []types.Query{
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:  queryText,
							Fields: []string{"title^3", "plain_content", "genre^2", "author_username^2"},
						},
					},
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:     queryText,
							Fields:    []string{"title", "plain_content"},
							Fuzziness: "AUTO",
						},
					},
				},
				MinimumShouldMatch: 1,
			},
		}).
		Sort(
			types.SortOptions{Score_: &types.ScoreSort{Order: &sortorder.Desc}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"avg_rating": {Order: &sortorder.Desc},
			}},
		).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *StoryRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*StoryES, int64, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "search stories")
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}

	results := make([]*StoryES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var story StoryES
		if err = json.Unmarshal(hit.Source_, &story); err != nil {
			continue
		}
		results = append(results, &story)
	}
	return results, total, nil
}
