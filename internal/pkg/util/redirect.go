package util

import (
	"net/url"
	"strings"
)

const (
	RedirectError   = "error"
	RedirectSuccess = "success"
)

// EncodedRedirect 生成 path?type=message 形式的跳转地址
func EncodedRedirect(kind, path, message string) string {
	return path + "?" + kind + "=" + url.QueryEscape(message)
}

// SafeNextPath 只接受站内路径，其余情况回到首页
func SafeNextPath(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}
