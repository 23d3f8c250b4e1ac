package consts

const (
	SessionRevokedKey   = "auth:session:revoked:"
	AuthCodeKey         = "auth:code:"
	StoryListVersionKey = "story:list:version"
	StoryListKey        = "story:list:"
	StoryDetailKey      = "story:detail:"
	StoryReindexLock    = "lock:story:reindex"
)

const (
	RateLimitSignIn = "ratelimit:signin"
	RateLimitClaim  = "ratelimit:claim"
)

// SensitiveKeyPrefixes 日志中需要隐藏参数的键前缀
var SensitiveKeyPrefixes = []string{SessionRevokedKey, AuthCodeKey}
