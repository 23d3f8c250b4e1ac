package handler

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/api/middleware"
	"LittleStories/internal/pkg/response"
	"LittleStories/internal/pkg/util"
	"LittleStories/internal/service"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgSignUpSuccess    = "Thanks for signing up! Please check your email for a verification link."
	msgResetMailSent    = "If an account exists for this email, a password reset link has been sent."
	msgPasswordUpdated  = "Password updated successfully. Please sign in."
	callbackInvalidPath = "/sign-in?error=invalid_callback"
	callbackFailedPath  = "/sign-in?error=auth_callback_failed"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (s *AuthHandler) SignUp(c *gin.Context) {
	var form dto.SignUpDTO
	if err := c.ShouldBind(&form); err != nil {
		redirectError(c, "/sign-up", err)
		return
	}
	err := s.authSvc.SignUp(c.Request.Context(), &form, middleware.BaseURL(c.Request.Context()))
	if err != nil {
		redirectError(c, "/sign-up", err)
		return
	}
	redirectSuccess(c, "/sign-up", msgSignUpSuccess)
}

func (s *AuthHandler) SignIn(c *gin.Context) {
	var form dto.SignInDTO
	if err := c.ShouldBind(&form); err != nil {
		redirectError(c, "/sign-in", err)
		return
	}
	session, err := s.authSvc.SignIn(c.Request.Context(), &form)
	if err != nil {
		redirectError(c, "/sign-in", err)
		return
	}
	setSessionCookie(c, session)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *AuthHandler) ForgotPassword(c *gin.Context) {
	var form dto.ForgotPasswordDTO
	if err := c.ShouldBind(&form); err != nil {
		redirectError(c, "/forgot-password", err)
		return
	}
	err := s.authSvc.ForgotPassword(c.Request.Context(), &form, middleware.BaseURL(c.Request.Context()))
	if err != nil {
		redirectError(c, "/forgot-password", err)
		return
	}
	redirectSuccess(c, "/forgot-password", msgResetMailSent)
}

func (s *AuthHandler) ResetPassword(c *gin.Context) {
	var form dto.ResetPasswordDTO
	if err := c.ShouldBind(&form); err != nil {
		redirectError(c, service.ResetPasswordPath, err)
		return
	}
	err := s.authSvc.ResetPassword(c.Request.Context(), principalFrom(c), &form)
	if err != nil {
		redirectError(c, service.ResetPasswordPath, err)
		return
	}
	redirectSuccess(c, "/sign-in", msgPasswordUpdated)
}

func (s *AuthHandler) SignOut(c *gin.Context) {
	if err := s.authSvc.SignOut(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		log.ErrorContext(c.Request.Context(), "sign out failed", "err", err)
	}
	clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// Callback 邮件链接的落地地址，验证码换取会话后跳转到 next
func (s *AuthHandler) Callback(c *gin.Context) {
	var query dto.CallbackDTO
	if err := c.ShouldBindQuery(&query); err != nil || query.Code == "" {
		c.Redirect(http.StatusSeeOther, callbackInvalidPath)
		return
	}
	session, err := s.authSvc.ExchangeCode(c.Request.Context(), query.Code)
	if err != nil {
		log.WarnContext(c.Request.Context(), "auth callback failed", "err", err)
		c.Redirect(http.StatusSeeOther, callbackFailedPath)
		return
	}
	setSessionCookie(c, session)
	c.Redirect(http.StatusSeeOther, util.SafeNextPath(query.Next))
}

func (s *AuthHandler) Session(c *gin.Context) {
	session, err := s.authSvc.GetSession(c.Request.Context(), principalFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, session)
}
