package response

import (
	"LittleStories/internal/api/dto"
	"LittleStories/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误，未登记的错误只记录日志，不把原始信息返回给客户端
func Error(c *gin.Context, err error) {
	code, message := Resolve(c, err)
	Fail(c, code, message)
}

// Action 表单动作成功
func Action(c *gin.Context, result *dto.ActionResult) {
	result.Success = true
	c.JSON(http.StatusOK, result)
}

// ActionError 表单动作失败，返回 {success:false, error}
func ActionError(c *gin.Context, err error) {
	_, message := Resolve(c, err)
	c.JSON(http.StatusOK, dto.ActionResult{Success: false, Error: message})
}

// Resolve 将错误转换为业务码与用户可见的信息
func Resolve(c *gin.Context, err error) (int, string) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return BadRequest, service.ErrParamInvalid.Error()
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		return BadRequest, service.ErrParamInvalid.Error()
	}

	known, code, ok := service.LookupError(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "unexpected error", "path", c.FullPath(), "err", err)
	}
	return code, known.Error()
}
