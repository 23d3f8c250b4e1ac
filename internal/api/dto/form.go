package dto

import "strings"

// Checkbox HTML 复选框：字段存在即为选中，显式的 false/off/0 视为未选中
type Checkbox string

func (c Checkbox) Checked() bool {
	switch strings.ToLower(strings.TrimSpace(string(c))) {
	case "", "false", "off", "0":
		return false
	default:
		return true
	}
}
