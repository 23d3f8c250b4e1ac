package service

// Principal 已登录的调用方，由鉴权中间件构造后显式传入各个用例；nil 表示游客
type Principal struct {
	UserID string
	Roles  []string
}

func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != ""
}

func (p *Principal) ID() string {
	if p == nil {
		return ""
	}
	return p.UserID
}
