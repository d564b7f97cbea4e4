package service

import (
	"encoding/json"
	"strings"
	"time"

	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/util"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// uid 长度沿用原型的 9 位随机标识
const questionUIDLength = 9

// ValidateActivity 把模型原始文本规范化为 Activity。
// 接受门槛刻意宽松：只要求 student_worksheet 存在，
// teacher_guide / visual_theme 缺省时由下游回退处理。
// 失败是终态，不做猜测性修复。
func ValidateActivity(raw string) (*model.Activity, error) {
	cleaned := StripCodeFences(raw)

	// 先探测键是否存在，再做完整反序列化。
	// student_worksheet 是最低接受门槛：题目为空可以，键缺失不行。
	var probe struct {
		StudentWorksheet json.RawMessage `json:"student_worksheet"`
	}
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, util.ErrMalformedResponse
	}
	if len(probe.StudentWorksheet) == 0 {
		return nil, util.ErrInvalidSchema
	}

	var activity model.Activity
	if err := json.Unmarshal([]byte(cleaned), &activity); err != nil {
		return nil, util.ErrMalformedResponse
	}

	NormalizeActivity(&activity)
	return &activity, nil
}

// NormalizeActivity 注入 id 与缺失的 uid。幂等：
// 已有的标识永不改写，保证用户编辑跨重载仍指向同一题。
func NormalizeActivity(a *model.Activity) {
	if a.ID == 0 {
		a.ID = time.Now().UnixMilli()
	}
	EnsureQuestionUIDs(a.StudentWorksheet.Questions)
}

// EnsureQuestionUIDs 仅补齐缺失的 uid，不覆盖已有值
func EnsureQuestionUIDs(questions []model.Question) {
	for i := range questions {
		if questions[i].UID == "" {
			questions[i].UID = gonanoid.Must(questionUIDLength)
		}
	}
}

// StripCodeFences 剥掉模型输出外层的 markdown 代码栅栏
func StripCodeFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
