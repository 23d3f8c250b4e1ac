package dto

// Response 读接口统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ActionResult 表单动作的返回结构，成功时带 message，失败时带 error
type ActionResult struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	Error      string  `json:"error,omitempty"`
	StoryID    string  `json:"story_id,omitempty"`
	ClaimToken string  `json:"claim_token,omitempty"`
	IsPublic   *bool   `json:"is_public,omitempty"`
	Username   string  `json:"updated_username,omitempty"`
	Rating     *Rating `json:"rating,omitempty"`
}

// Rating 评分变更后的最新聚合值
type Rating struct {
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`
	UserRating  int     `json:"user_rating"`
}
