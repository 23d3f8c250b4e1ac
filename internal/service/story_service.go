package service

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/model"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/es"
	"LittleStories/internal/pkg/kafka"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// StoryAuthorship 创建故事的两种结果
type StoryAuthorship int

const (
	StoryAuthored StoryAuthorship = iota + 1
	StoryGuest
)

func (a StoryAuthorship) String() string {
	switch a {
	case StoryAuthored:
		return "authored"
	case StoryGuest:
		return "guest"
	default:
		return "unknown"
	}
}

// CreateStoryResult Kind 为 StoryGuest 时 ClaimToken 非空，且只在此处返回一次
type CreateStoryResult struct {
	Kind       StoryAuthorship
	StoryID    string
	IsPublic   bool
	ClaimToken string
}

const (
	excerptLength = 200
	editedGrace   = consts.EditedGraceSecond * time.Second
)

type StoryService interface {
	CreateStory(ctx context.Context, principal *Principal, form *dto.StoryFormDTO) (*CreateStoryResult, error)
	UpdateStory(ctx context.Context, principal *Principal, storyID string, form *dto.StoryFormDTO) (bool, error)
	DeleteStory(ctx context.Context, principal *Principal, storyID string) error
	GetStory(ctx context.Context, principal *Principal, storyID string) (*dto.StoryDTO, error)
	ListPublicStories(ctx context.Context, principal *Principal, page int) (*dto.StoryPageDTO, error)
	SearchStories(ctx context.Context, principal *Principal, query string, page int) (*dto.StoryPageDTO, error)
}

type StoryServiceImpl struct {
	storyRepo   repository.StoryRepo
	userRepo    repository.UserRepo
	ratingRepo  repository.RatingRepo
	storyESRepo es.StoryRepo
	cache       *StoryCache
	publisher   kafka.Publisher
}

// NewStoryService storyESRepo 为 nil 时检索退化为数据库模糊匹配
func NewStoryService(
	storyRepo repository.StoryRepo,
	userRepo repository.UserRepo,
	ratingRepo repository.RatingRepo,
	storyESRepo es.StoryRepo,
	cache *StoryCache,
	publisher kafka.Publisher,
) StoryService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &StoryServiceImpl{
		storyRepo:   storyRepo,
		userRepo:    userRepo,
		ratingRepo:  ratingRepo,
		storyESRepo: storyESRepo,
		cache:       cache,
		publisher:   publisher,
	}
}

type storyFields struct {
	title   string
	content string
	genres  model.Genres
}

// validateStoryForm 按标题、正文、类型的顺序校验，返回第一个不满足的约束
func validateStoryForm(form *dto.StoryFormDTO, requireGenre bool) (*storyFields, error) {
	title := strings.TrimSpace(form.Title)
	if n := util.RuneLen(title); n == 0 || n > consts.StoryTitleMaxLen {
		return nil, ErrTitleInvalid
	}
	content := strings.TrimSpace(form.Content)
	if n := util.RuneLen(content); n < consts.StoryContentMinLen || n > consts.StoryContentMaxLen {
		return nil, ErrContentInvalid
	}

	fields := &storyFields{title: title, content: content}
	if !requireGenre && len(form.Genre) == 0 {
		return fields, nil
	}
	genres := util.NormalizeTags(form.Genre)
	if len(genres) == 0 || len(genres) > consts.StoryGenreMaxCount {
		return nil, ErrGenreInvalid
	}
	for _, g := range genres {
		if util.RuneLen(g) > consts.StoryGenreMaxLen {
			return nil, ErrGenreInvalid
		}
	}
	fields.genres = genres
	return fields, nil
}

func (s *StoryServiceImpl) CreateStory(ctx context.Context, principal *Principal, form *dto.StoryFormDTO) (*CreateStoryResult, error) {
	fields, err := validateStoryForm(form, true)
	if err != nil {
		return nil, err
	}

	story := &model.Story{
		StoryID: uuid.NewString(),
		Title:   fields.title,
		Content: fields.content,
		Genre:   fields.genres,
	}
	result := &CreateStoryResult{StoryID: story.StoryID}

	if principal.Authenticated() {
		// 角色以数据库为准，Token 中的角色可能已过期
		user, err := s.userRepo.GetUserByID(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotAuthenticated
		}
		if !user.IsAuthor {
			return nil, ErrNotAuthor
		}
		story.UserID = &user.UserID
		story.IsPublic = form.IsPublic.Checked()
		result.Kind = StoryAuthored
	} else {
		token := uuid.NewString()
		story.ClaimToken = &token
		story.IsPublic = true
		result.Kind = StoryGuest
		result.ClaimToken = token
	}
	result.IsPublic = story.IsPublic

	if err = s.storyRepo.CreateStory(ctx, story); err != nil {
		return nil, mapRepoError(err)
	}
	log.InfoContext(ctx, "story created", "story_id", story.StoryID, "kind", result.Kind.String())

	s.cache.Invalidate(ctx)
	s.publisher.Publish(ctx, kafka.NewStoryEvent(kafka.StoryCreated, story.StoryID, principal.ID()))
	return result, nil
}

// UpdateStory 返回更新后的可见性
func (s *StoryServiceImpl) UpdateStory(ctx context.Context, principal *Principal, storyID string, form *dto.StoryFormDTO) (bool, error) {
	if !principal.Authenticated() {
		return false, ErrNotAuthenticated
	}
	fields, err := validateStoryForm(form, false)
	if err != nil {
		return false, err
	}
	if err = s.checkOwnership(ctx, principal, storyID); err != nil {
		return false, err
	}

	isPublic := form.IsPublic.Checked()
	updates := map[string]any{
		"title":     fields.title,
		"content":   fields.content,
		"is_public": isPublic,
	}
	if fields.genres != nil {
		updates["genre"] = fields.genres
	}

	rows, err := s.storyRepo.UpdateStoryByOwner(ctx, storyID, principal.UserID, updates)
	if err != nil {
		return false, mapRepoError(err)
	}
	if rows == 0 {
		return false, ErrNotStoryOwner
	}

	s.cache.Invalidate(ctx, storyID)
	s.publisher.Publish(ctx, kafka.NewStoryEvent(kafka.StoryUpdated, storyID, principal.UserID))
	return isPublic, nil
}

func (s *StoryServiceImpl) DeleteStory(ctx context.Context, principal *Principal, storyID string) error {
	if !principal.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := s.checkOwnership(ctx, principal, storyID); err != nil {
		return err
	}

	rows, err := s.storyRepo.DeleteStoryByOwner(ctx, storyID, principal.UserID)
	if err != nil {
		return mapRepoError(err)
	}
	if rows == 0 {
		return ErrNotStoryOwner
	}
	log.InfoContext(ctx, "story deleted", "story_id", storyID)

	s.cache.Invalidate(ctx, storyID)
	s.publisher.Publish(ctx, kafka.NewStoryEvent(kafka.StoryDeleted, storyID, principal.UserID))
	return nil
}

func (s *StoryServiceImpl) checkOwnership(ctx context.Context, principal *Principal, storyID string) error {
	if !util.IsUUID(storyID) {
		return ErrStoryNotFound
	}
	story, err := s.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if !story.IsOwnedBy(principal.UserID) {
		return ErrNotStoryOwner
	}
	return nil
}

// GetStory 私密故事只对作者可见，其他人得到 ErrStoryNotFound
func (s *StoryServiceImpl) GetStory(ctx context.Context, principal *Principal, storyID string) (*dto.StoryDTO, error) {
	if !util.IsUUID(storyID) {
		return nil, ErrStoryNotFound
	}

	storyDTO := s.cache.GetStory(ctx, storyID)
	if storyDTO == nil {
		story, err := s.storyRepo.GetStory(ctx, storyID)
		if err != nil {
			return nil, err
		}
		if story == nil {
			return nil, ErrStoryNotFound
		}
		storyDTO, err = toStoryDTO(story, true)
		if err != nil {
			return nil, err
		}
		s.cache.SetStory(ctx, storyDTO)
	}

	owner := principal.Authenticated() && storyDTO.UserID != nil && *storyDTO.UserID == principal.UserID
	if !storyDTO.IsPublic && !owner {
		return nil, ErrStoryNotFound
	}
	storyDTO.IsOwner = owner

	if principal.Authenticated() {
		rating, err := s.ratingRepo.GetUserRating(ctx, principal.UserID, storyID)
		if err != nil {
			return nil, err
		}
		storyDTO.UserRating = rating
	}
	return storyDTO, nil
}

func (s *StoryServiceImpl) ListPublicStories(ctx context.Context, principal *Principal, page int) (*dto.StoryPageDTO, error) {
	if page < 1 {
		page = 1
	}

	result := s.cache.GetPage(ctx, page)
	if result == nil {
		stories, total, err := s.storyRepo.ListPublicStories(ctx, consts.StoriesPerPage, (page-1)*consts.StoriesPerPage)
		if err != nil {
			return nil, err
		}
		result, err = toStoryPage(stories, total, page, consts.StoriesPerPage)
		if err != nil {
			return nil, err
		}
		s.cache.SetPage(ctx, page, result)
	}

	if err := s.applyViewer(ctx, principal, result.Stories); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *StoryServiceImpl) SearchStories(ctx context.Context, principal *Principal, query string, page int) (*dto.StoryPageDTO, error) {
	query = strings.TrimSpace(query)
	if page < 1 {
		page = 1
	}
	if query == "" {
		return &dto.StoryPageDTO{Stories: make([]*dto.StoryDTO, 0), Page: page}, nil
	}
	offset := (page - 1) * consts.SearchResultsPerPage

	var result *dto.StoryPageDTO
	if s.storyESRepo != nil {
		docs, total, err := s.storyESRepo.SearchStories(ctx, query, offset, consts.SearchResultsPerPage)
		if err != nil {
			log.ErrorContext(ctx, "search stories failed", "err", err)
			return nil, UnExpectedError
		}
		result = newStoryPage(total, page, consts.SearchResultsPerPage)
		for _, doc := range docs {
			result.Stories = append(result.Stories, esToStoryDTO(doc))
		}
	} else {
		stories, total, err := s.storyRepo.SearchPublicStories(ctx, query, consts.SearchResultsPerPage, offset)
		if err != nil {
			return nil, err
		}
		result, err = toStoryPage(stories, total, page, consts.SearchResultsPerPage)
		if err != nil {
			return nil, err
		}
	}

	if err := s.applyViewer(ctx, principal, result.Stories); err != nil {
		return nil, err
	}
	return result, nil
}

// applyViewer 一次查询取回当前页所有故事的个人评分
func (s *StoryServiceImpl) applyViewer(ctx context.Context, principal *Principal, stories []*dto.StoryDTO) error {
	if !principal.Authenticated() || len(stories) == 0 {
		return nil
	}
	ids := make([]string, 0, len(stories))
	for _, st := range stories {
		ids = append(ids, st.StoryID)
	}
	ratings, err := s.ratingRepo.GetUserRatingsForStories(ctx, principal.UserID, ids)
	if err != nil {
		return err
	}
	for _, st := range stories {
		st.UserRating = ratings[st.StoryID]
		st.IsOwner = st.UserID != nil && *st.UserID == principal.UserID
	}
	return nil
}

func toStoryDTO(story *model.StoryWithAuthor, withContent bool) (*dto.StoryDTO, error) {
	storyDTO := &dto.StoryDTO{}
	if err := copier.Copy(storyDTO, story); err != nil {
		return nil, err
	}
	if storyDTO.Genre == nil {
		storyDTO.Genre = make([]string, 0)
	}
	storyDTO.Excerpt = util.Excerpt(story.Content, excerptLength)
	storyDTO.WasEdited = story.WasEdited(editedGrace)
	if !withContent {
		storyDTO.Content = ""
	}
	return storyDTO, nil
}

func newStoryPage(total int64, page, perPage int) *dto.StoryPageDTO {
	totalPages := util.TotalPages(total, perPage)
	return &dto.StoryPageDTO{
		Stories:     make([]*dto.StoryDTO, 0, perPage),
		Page:        page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

func toStoryPage(stories []*model.StoryWithAuthor, total int64, page, perPage int) (*dto.StoryPageDTO, error) {
	result := newStoryPage(total, page, perPage)
	for _, story := range stories {
		storyDTO, err := toStoryDTO(story, false)
		if err != nil {
			return nil, err
		}
		result.Stories = append(result.Stories, storyDTO)
	}
	return result, nil
}

func esToStoryDTO(doc *es.StoryES) *dto.StoryDTO {
	storyDTO := &dto.StoryDTO{
		StoryID:     doc.StoryID,
		Title:       doc.Title,
		Excerpt:     doc.Excerpt,
		Genre:       doc.Genre,
		IsPublic:    true,
		AvgRating:   doc.AvgRating,
		RatingCount: doc.RatingCount,
		WasEdited:   doc.UpdatedAt.Sub(doc.CreatedAt) > editedGrace,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if doc.UserID != "" {
		storyDTO.UserID = &doc.UserID
	}
	if doc.AuthorUsername != "" {
		storyDTO.AuthorUsername = &doc.AuthorUsername
	}
	return storyDTO
}

// mapRepoError 将仓储层的哨兵错误转换为用户可见的错误
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrPermissionDenied):
		return ErrPermissionDenied
	case errors.Is(err, repository.ErrClaimInvalid):
		return ErrClaimInvalid
	default:
		return err
	}
}
