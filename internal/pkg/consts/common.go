package consts

// 首页与搜索分页大小
const (
	StoriesPerPage       = 9
	SearchResultsPerPage = 10
)

// 故事字段约束
const (
	StoryTitleMaxLen   = 150
	StoryContentMinLen = 50
	StoryContentMaxLen = 10000
	StoryGenreMaxCount = 10
	StoryGenreMaxLen   = 30
	RatingMin          = 1
	RatingMax          = 5
)

// 用户字段约束
const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 50
	BioMaxLen         = 500
	PasswordMinLen    = 6
	EditedGraceSecond = 60
)

// SessionCookie 浏览器会话 Cookie 名
const SessionCookie = "ls_session"

type ctxKey string

// BaseURL 请求来源站点，用于拼接邮件中的回调地址
const BaseURL ctxKey = "base_url"
