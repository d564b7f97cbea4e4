package model

import "encoding/json"

// HistoryEntry 一条持久化的材料快照。整份 Activity 以 JSON 存储，
// 列表按 Position 升序即"最新在前"。每次变更都整表替换该用户的全部条目，
// 不做增量写入（接受 last-write-wins）。
// swagger:model
type HistoryEntry struct {
	BaseModel
	// "u:<userID>" 或 "d:<deviceID>"，区分登录用户与游客设备
	UserKey string `gorm:"size:64;index:idx_history_user" json:"-"`
	// Activity.ID（生成时刻的毫秒时间戳），同一用户内唯一
	ActivityID int64  `gorm:"index:idx_history_user" json:"activityId"`
	Title      string `gorm:"size:255" json:"title"`
	Level      string `gorm:"size:8" json:"level"`
	// 创建日期标签，展示用
	Date     string          `gorm:"size:32" json:"date"`
	Position int             `json:"position"`
	Payload  json.RawMessage `gorm:"type:json" json:"payload"`
	Visuals  json.RawMessage `gorm:"type:json" json:"visuals,omitempty"`
}

// ExportRecord 一次 PDF 导出的留痕（文件名、存储位置、页数）
type ExportRecord struct {
	BaseModel
	UserKey     string `gorm:"size:64;index" json:"-"`
	ActivityID  int64  `json:"activityId"`
	Filename    string `gorm:"size:255" json:"filename"`
	ObjectKey   string `gorm:"size:255" json:"objectKey"`
	TeacherMode bool   `json:"teacherMode"`
	Pages       int    `json:"pages"`
}
