package model

// 角色以 users 表上的布尔列保存，这里只定义写入 JWT 时使用的名字
const (
	RoleAuthor = "AUTHOR"
	RoleReader = "READER"
)

// AllModels 迁移顺序：被引用的表在前
func AllModels() []any {
	return []any{&Account{}, &User{}, &Story{}, &Rating{}}
}
