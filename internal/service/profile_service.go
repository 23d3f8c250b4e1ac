package service

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/model"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/jinzhu/copier"
)

type ProfileService interface {
	GetProfile(ctx context.Context, principal *Principal, username string) (*dto.ProfileDTO, error)
	GetMyProfile(ctx context.Context, principal *Principal) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, principal *Principal, form *dto.ProfileFormDTO) (string, error)
}

type ProfileServiceImpl struct {
	userRepo  repository.UserRepo
	storyRepo repository.StoryRepo
	cache     *StoryCache
}

func NewProfileService(userRepo repository.UserRepo, storyRepo repository.StoryRepo, cache *StoryCache) ProfileService {
	return &ProfileServiceImpl{
		userRepo:  userRepo,
		storyRepo: storyRepo,
		cache:     cache,
	}
}

func (s *ProfileServiceImpl) GetProfile(ctx context.Context, principal *Principal, username string) (*dto.ProfileDTO, error) {
	username = strings.TrimSpace(username)
	if !util.IsValidUsername(username) {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.buildProfile(ctx, principal, user)
}

func (s *ProfileServiceImpl) GetMyProfile(ctx context.Context, principal *Principal) (*dto.ProfileDTO, error) {
	if !principal.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	user, err := s.userRepo.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.buildProfile(ctx, principal, user)
}

// buildProfile 作者本人可以看到自己的私密故事
func (s *ProfileServiceImpl) buildProfile(ctx context.Context, principal *Principal, user *model.User) (*dto.ProfileDTO, error) {
	isOwner := principal.Authenticated() && principal.UserID == user.UserID

	profile := &dto.ProfileDTO{}
	if err := copier.Copy(profile, user); err != nil {
		return nil, err
	}
	profile.IsOwner = isOwner

	stories, err := s.storyRepo.ListStoriesByUser(ctx, user.UserID, isOwner)
	if err != nil {
		return nil, err
	}
	profile.Stories = make([]*dto.StoryDTO, 0, len(stories))
	for _, story := range stories {
		storyDTO, err := toStoryDTO(story, false)
		if err != nil {
			return nil, err
		}
		storyDTO.IsOwner = isOwner
		profile.Stories = append(profile.Stories, storyDTO)
	}
	return profile, nil
}

// UpdateProfile 返回更新后的用户名，用户名未变化时同样成功
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, principal *Principal, form *dto.ProfileFormDTO) (string, error) {
	if !principal.Authenticated() {
		return "", ErrNotAuthenticated
	}

	form.Username = strings.TrimSpace(form.Username)
	form.Bio = strings.TrimSpace(form.Bio)
	if fe := util.ValidateDTO(form); fe != nil {
		switch fe.Field() {
		case "Bio":
			return "", ErrBioTooLong
		default:
			return "", ErrUsernameInvalid
		}
	}
	username, bio := form.Username, form.Bio
	isAuthor, isReader := form.IsAuthor.Checked(), form.IsReader.Checked()
	if !isAuthor && !isReader {
		return "", ErrRoleRequired
	}

	taken, err := s.userRepo.UsernameTaken(ctx, username, principal.UserID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrUsernameExists
	}

	rows, err := s.userRepo.UpdateProfile(ctx, &model.User{
		UserID:   principal.UserID,
		Username: username,
		Bio:      bio,
		IsAuthor: isAuthor,
		IsReader: isReader,
	})
	if err != nil {
		// 并发改名时唯一索引兜底
		if errors.Is(err, repository.ErrDuplicateKey) {
			return "", ErrUsernameExists
		}
		return "", mapRepoError(err)
	}
	if rows == 0 {
		return "", ErrUserNotFound
	}
	log.InfoContext(ctx, "profile updated", "user_id", principal.UserID)

	// 列表与详情中都展示作者用户名
	storyIDs := make([]string, 0)
	if stories, err := s.storyRepo.ListStoriesByUser(ctx, principal.UserID, true); err == nil {
		for _, story := range stories {
			storyIDs = append(storyIDs, story.StoryID)
		}
	}
	s.cache.Invalidate(ctx, storyIDs...)
	return username, nil
}
