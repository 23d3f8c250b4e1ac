package service

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/model"
	"LittleStories/internal/pkg/consts"
	"LittleStories/internal/pkg/mail"
	"LittleStories/internal/pkg/ratelimit"
	"LittleStories/internal/pkg/redis"
	"LittleStories/internal/pkg/security"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	confirmCodeTTL  = 24 * time.Hour
	recoveryCodeTTL = time.Hour

	codeKindConfirm  = "confirm"
	codeKindRecovery = "recovery"

	ResetPasswordPath = "/protected/reset-password"
)

// Session 签发给浏览器的会话
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	SignUp(ctx context.Context, form *dto.SignUpDTO, origin string) error
	SignIn(ctx context.Context, form *dto.SignInDTO) (*Session, error)
	SignOut(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, form *dto.ForgotPasswordDTO, origin string) error
	ExchangeCode(ctx context.Context, code string) (*Session, error)
	ResetPassword(ctx context.Context, principal *Principal, form *dto.ResetPasswordDTO) error
	GetSession(ctx context.Context, principal *Principal) (*dto.SessionDTO, error)
}

type AuthServiceImpl struct {
	accountRepo repository.AccountRepo
	userRepo    repository.UserRepo
	mailer      mail.Mailer
	limiter     *ratelimit.FixedWindowLimiter
}

func NewAuthService(accountRepo repository.AccountRepo, userRepo repository.UserRepo, mailer mail.Mailer, limiter *ratelimit.FixedWindowLimiter) AuthService {
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		limiter:     limiter,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthServiceImpl) SignUp(ctx context.Context, form *dto.SignUpDTO, origin string) error {
	form.Email = normalizeEmail(form.Email)
	form.Username = strings.TrimSpace(form.Username)
	if form.Email == "" || form.Password == "" || form.Username == "" {
		return ErrSignUpFieldsRequired
	}
	if len(form.Password) < consts.PasswordMinLen {
		return ErrPasswordTooShort
	}
	isAuthor, isReader := form.IsAuthor.Checked(), form.IsReader.Checked()
	if !isAuthor && !isReader {
		return ErrSignUpRoleRequired
	}
	if fe := util.ValidateDTO(form); fe != nil {
		switch fe.Field() {
		case "Email":
			return ErrEmailInvalid
		case "Username":
			return ErrUsernameInvalid
		default:
			return ErrParamInvalid
		}
	}

	existing, err := s.accountRepo.GetAccountByEmail(ctx, form.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailExists
	}
	taken, err := s.userRepo.UsernameTaken(ctx, form.Username, "")
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameExists
	}

	passwordHash, err := security.HashPassword(form.Password)
	if err != nil {
		return err
	}
	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        form.Email,
		PasswordHash: passwordHash,
	}
	user := &model.User{
		Username: form.Username,
		IsAuthor: isAuthor,
		IsReader: isReader,
	}
	if err = s.accountRepo.CreateAccountWithUser(ctx, account, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// 并发注册，以用户名是否被占用区分冲突字段
			if taken, _ = s.userRepo.UsernameTaken(ctx, form.Username, ""); taken {
				return ErrUsernameExists
			}
			return ErrEmailExists
		}
		return err
	}
	log.InfoContext(ctx, "account created", "user_id", account.ID)

	code, err := issueCode(ctx, codeKindConfirm, account.ID, confirmCodeTTL)
	if err != nil {
		return err
	}
	link := callbackLink(origin, code, "")
	err = s.mailer.Send(ctx, &mail.Message{
		To:      account.Email,
		Subject: "Confirm your Little Stories account",
		Text:    fmt.Sprintf("Welcome, %s!\n\nConfirm your email address by opening this link:\n%s\n", user.Username, link),
	})
	if err != nil {
		// 账号已创建，可通过找回密码邮件完成验证
		log.ErrorContext(ctx, "send confirmation mail failed", "user_id", account.ID, "err", err)
	}
	return nil
}

func (s *AuthServiceImpl) SignIn(ctx context.Context, form *dto.SignInDTO) (*Session, error) {
	email := normalizeEmail(form.Email)
	if email == "" || form.Password == "" {
		return nil, ErrInvalidCredentials
	}
	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		log.ErrorContext(ctx, "sign in rate limit check failed", "err", err)
		return nil, UnExpectedError
	}
	if !allowed {
		return nil, ErrTooManyAttempts
	}

	account, err := s.accountRepo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err = security.CheckPasswordHash(form.Password, account.PasswordHash); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.Confirmed() {
		return nil, ErrEmailNotConfirmed
	}
	return s.issueSession(ctx, account.ID)
}

func (s *AuthServiceImpl) issueSession(ctx context.Context, userID string) (*Session, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	token, expiresAt, err := security.GenerateToken(user.UserID, user.Roles())
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// SignOut 将 Token 签名加入吊销列表直到其自然过期
func (s *AuthServiceImpl) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil
	}
	ttl := security.RemainingTTL(claims)
	if ttl <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.SessionRevokedKey+signature, 1, ttl)
}

// ForgotPassword 无论账号是否存在都返回成功，避免暴露已注册的邮箱
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, form *dto.ForgotPasswordDTO, origin string) error {
	email := normalizeEmail(form.Email)
	if email == "" {
		return ErrEmailRequired
	}

	account, err := s.accountRepo.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		log.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}

	code, err := issueCode(ctx, codeKindRecovery, account.ID, recoveryCodeTTL)
	if err != nil {
		return err
	}
	link := callbackLink(origin, code, ResetPasswordPath)
	err = s.mailer.Send(ctx, &mail.Message{
		To:      account.Email,
		Subject: "Reset your Little Stories password",
		Text:    fmt.Sprintf("Someone asked to reset the password for this account.\n\nOpen this link to choose a new one:\n%s\n\nIf it wasn't you, ignore this email.\n", link),
	})
	if err != nil {
		log.ErrorContext(ctx, "send recovery mail failed", "user_id", account.ID, "err", err)
		return ErrResetMailFailed
	}
	return nil
}

// ExchangeCode 一次性验证码换取会话，同时视为邮箱已验证
func (s *AuthServiceImpl) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	code = strings.TrimSpace(code)
	if !util.IsUUID(code) {
		return nil, ErrAuthCodeInvalid
	}
	value, err := redis.TakeValue(ctx, consts.AuthCodeKey+code)
	if err != nil {
		return nil, err
	}
	kind, accountID, ok := strings.Cut(value, ":")
	if !ok || (kind != codeKindConfirm && kind != codeKindRecovery) {
		return nil, ErrAuthCodeInvalid
	}

	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAuthCodeInvalid
	}
	if !account.Confirmed() {
		if err = s.accountRepo.ConfirmEmail(ctx, account.ID, time.Now()); err != nil {
			return nil, err
		}
	}
	return s.issueSession(ctx, account.ID)
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, principal *Principal, form *dto.ResetPasswordDTO) error {
	if !principal.Authenticated() {
		return ErrNotAuthenticated
	}
	if form.Password == "" || form.ConfirmPassword == "" {
		return ErrPasswordRequired
	}
	if form.Password != form.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(form.Password) < consts.PasswordMinLen {
		return ErrPasswordTooShort
	}

	account, err := s.accountRepo.GetAccountByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrPasswordUpdateFailed
	}
	passwordHash, err := security.HashPassword(form.Password)
	if err != nil {
		return err
	}
	if err = s.accountRepo.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return err
	}
	log.InfoContext(ctx, "password updated", "user_id", account.ID)
	return nil
}

func (s *AuthServiceImpl) GetSession(ctx context.Context, principal *Principal) (*dto.SessionDTO, error) {
	if !principal.Authenticated() {
		return &dto.SessionDTO{SignedIn: false}, nil
	}
	user, err := s.userRepo.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.SessionDTO{SignedIn: false}, nil
	}
	return &dto.SessionDTO{
		SignedIn: true,
		UserID:   user.UserID,
		Username: user.Username,
		IsAuthor: user.IsAuthor,
		IsReader: user.IsReader,
		Roles:    user.Roles(),
	}, nil
}

func issueCode(ctx context.Context, kind, accountID string, ttl time.Duration) (string, error) {
	code := uuid.NewString()
	if err := redis.SetWithExpiration(ctx, consts.AuthCodeKey+code, kind+":"+accountID, ttl); err != nil {
		return "", err
	}
	return code, nil
}

func callbackLink(origin, code, next string) string {
	query := url.Values{}
	query.Set("code", code)
	if next != "" {
		query.Set("next", next)
	}
	return strings.TrimRight(origin, "/") + "/auth/callback?" + query.Encode()
}
