package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/repository"
	"worksheet_arc_backend/internal/util"
	"worksheet_arc_backend/pkg/logger"

	"go.uber.org/zap"
)

// historyStore / currentStore 收窄的存储依赖，测试用内存实现替换
type historyStore interface {
	ListByUserKey(userKey string) ([]model.HistoryEntry, error)
	ReplaceAll(userKey string, entries []model.HistoryEntry) error
	DeleteAll(userKey string) error
}

type currentStore interface {
	Get(ctx context.Context, userKey string) (*model.Document, error)
	Set(ctx context.Context, userKey string, doc *model.Document) error
	Clear(ctx context.Context, userKey string) error
}

// HistoryService 当前文档的编辑中介与历史快照管理。
// 每次历史变更都整表替换该用户的列表，跨会话并发按 last-write-wins
// 处理，不做版本检查（已知取舍，见接口层说明）。
type HistoryService struct {
	History historyStore
	Current currentStore
}

func NewHistoryService(historyRepo *repository.HistoryRepository, currentRepo *repository.CurrentRepository) *HistoryService {
	return &HistoryService{
		History: historyRepo,
		Current: currentRepo,
	}
}

func (s *HistoryService) CurrentDocument(ctx context.Context, userKey string) (*model.Document, error) {
	return s.Current.Get(ctx, userKey)
}

// SetField 根级字段整值替换，仅支持 title 与 instructions
func (s *HistoryService) SetField(ctx context.Context, userKey, field, value string) (*model.Document, error) {
	doc, err := s.Current.Get(ctx, userKey)
	if err != nil {
		return nil, err
	}

	switch field {
	case "title":
		doc.Activity.Title = value
	case "instructions":
		doc.Activity.StudentWorksheet.Instructions = value
	default:
		return nil, fmt.Errorf("unknown editable field: %s", field)
	}

	if err := s.Current.Set(ctx, userKey, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// EditQuestionRequest 单题字段编辑。Value 的类型由 Field 决定。
type EditQuestionRequest struct {
	Index int             `json:"index"`
	Field string          `json:"field" binding:"required"`
	Value json.RawMessage `json:"value"`
}

// EditQuestion 替换指定下标题目的一个字段。
// 下标越界静默忽略：视为并发重排/删除造成的陈旧下标，不报错。
func (s *HistoryService) EditQuestion(ctx context.Context, userKey string, req *EditQuestionRequest) (*model.Document, error) {
	doc, err := s.Current.Get(ctx, userKey)
	if err != nil {
		return nil, err
	}

	questions := doc.Activity.StudentWorksheet.Questions
	if req.Index < 0 || req.Index >= len(questions) {
		logger.Log.Debug("stale question index ignored",
			zap.String("userKey", userKey), zap.Int("index", req.Index))
		return doc, nil
	}

	q := &questions[req.Index]
	switch req.Field {
	case "question_text":
		if err := json.Unmarshal(req.Value, &q.QuestionText); err != nil {
			return nil, fmt.Errorf("question_text must be a string: %w", err)
		}
	case "hint":
		if err := json.Unmarshal(req.Value, &q.Hint); err != nil {
			return nil, fmt.Errorf("hint must be a string: %w", err)
		}
	case "options":
		if err := json.Unmarshal(req.Value, &q.Options); err != nil {
			return nil, fmt.Errorf("options must be a string array: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown question field: %s", req.Field)
	}

	if err := s.Current.Set(ctx, userKey, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReorderQuestions 把 fromUID 对应的题移到 toUID 当前所在位置，
// 其余题目相对顺序不变（单元素搬移，不是交换）。
// 任一 uid 不存在按陈旧操作静默忽略。
func (s *HistoryService) ReorderQuestions(ctx context.Context, userKey, fromUID, toUID string) (*model.Document, error) {
	doc, err := s.Current.Get(ctx, userKey)
	if err != nil {
		return nil, err
	}

	ws := &doc.Activity.StudentWorksheet
	from := ws.QuestionIndexByUID(fromUID)
	to := ws.QuestionIndexByUID(toUID)
	if from < 0 || to < 0 || from == to {
		return doc, nil
	}

	moved := ws.Questions[from]
	ws.Questions = append(ws.Questions[:from], ws.Questions[from+1:]...)
	ws.Questions = append(ws.Questions[:to], append([]model.Question{moved}, ws.Questions[to:]...)...)

	if err := s.Current.Set(ctx, userKey, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteQuestion 删除一题，越界静默忽略。确认弹窗是客户端的事。
func (s *HistoryService) DeleteQuestion(ctx context.Context, userKey string, index int) (*model.Document, error) {
	doc, err := s.Current.Get(ctx, userKey)
	if err != nil {
		return nil, err
	}

	questions := doc.Activity.StudentWorksheet.Questions
	if index < 0 || index >= len(questions) {
		return doc, nil
	}
	doc.Activity.StudentWorksheet.Questions = append(questions[:index], questions[index+1:]...)

	if err := s.Current.Set(ctx, userKey, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// AddToHistory 在列表头部插入新快照并整表持久化
func (s *HistoryService) AddToHistory(ctx context.Context, userKey string, doc *model.Document) error {
	entry, err := entryFromDocument(doc)
	if err != nil {
		return err
	}

	existing, err := s.History.ListByUserKey(userKey)
	if err != nil {
		return err
	}

	updated := append([]model.HistoryEntry{entry}, existing...)
	return s.History.ReplaceAll(userKey, updated)
}

func (s *HistoryService) ListHistory(userKey string) ([]model.HistoryEntry, error) {
	return s.History.ListByUserKey(userKey)
}

// UpdateHistoryItem 用当前编辑结果覆盖 id 匹配的快照，
// 同时把当前文档同步为同一份内容，保证保存后两者不再分叉
func (s *HistoryService) UpdateHistoryItem(ctx context.Context, userKey string, activity *model.Activity) error {
	entries, err := s.History.ListByUserKey(userKey)
	if err != nil {
		return err
	}

	found := false
	for i := range entries {
		if entries[i].ActivityID == activity.ID {
			payload, err := json.Marshal(activity)
			if err != nil {
				return err
			}
			entries[i].Payload = payload
			entries[i].Title = activity.Title
			entries[i].Level = activity.Meta.Level
			found = true
			break
		}
	}
	if !found {
		return util.ErrHistoryNotFound
	}

	if err := s.History.ReplaceAll(userKey, entries); err != nil {
		return err
	}

	doc, err := s.Current.Get(ctx, userKey)
	if err == nil {
		doc.Activity = *activity
		return s.Current.Set(ctx, userKey, doc)
	}
	return nil
}

// DeleteHistoryItem 删除快照；被删的恰好是当前展示的文档时一并清除
func (s *HistoryService) DeleteHistoryItem(ctx context.Context, userKey string, activityID int64) error {
	entries, err := s.History.ListByUserKey(userKey)
	if err != nil {
		return err
	}

	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ActivityID == activityID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return util.ErrHistoryNotFound
	}

	if err := s.History.ReplaceAll(userKey, kept); err != nil {
		return err
	}

	if doc, err := s.Current.Get(ctx, userKey); err == nil && doc.Activity.ID == activityID {
		return s.Current.Clear(ctx, userKey)
	}
	return nil
}

// MoveHistoryItem 与相邻条目换位。direction 取 "up" 或 "down"，
// 已在边界时是无操作。
func (s *HistoryService) MoveHistoryItem(ctx context.Context, userKey string, activityID int64, direction string) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down")
	}

	entries, err := s.History.ListByUserKey(userKey)
	if err != nil {
		return err
	}

	idx := -1
	for i := range entries {
		if entries[i].ActivityID == activityID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return util.ErrHistoryNotFound
	}

	swap := idx - 1
	if direction == "down" {
		swap = idx + 1
	}
	if swap < 0 || swap >= len(entries) {
		return nil
	}

	entries[idx], entries[swap] = entries[swap], entries[idx]
	return s.History.ReplaceAll(userKey, entries)
}

// LoadFromHistory 把快照恢复为当前文档。历史里可能存着
// 早期没有 uid 的题目，加载时补齐（只补缺失，不覆盖）。
func (s *HistoryService) LoadFromHistory(ctx context.Context, userKey string, activityID int64) (*model.Document, error) {
	entries, err := s.History.ListByUserKey(userKey)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.ActivityID != activityID {
			continue
		}

		var doc model.Document
		if err := json.Unmarshal(e.Payload, &doc.Activity); err != nil {
			return nil, util.ErrMalformedResponse
		}
		if len(e.Visuals) > 0 {
			if err := json.Unmarshal(e.Visuals, &doc.Visuals); err != nil {
				return nil, util.ErrMalformedResponse
			}
		}

		EnsureQuestionUIDs(doc.Activity.StudentWorksheet.Questions)

		if err := s.Current.Set(ctx, userKey, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	return nil, util.ErrHistoryNotFound
}

// ClearHistory 清空该用户的全部快照与当前文档
func (s *HistoryService) ClearHistory(ctx context.Context, userKey string) error {
	if err := s.History.DeleteAll(userKey); err != nil {
		return err
	}
	return s.Current.Clear(ctx, userKey)
}

func entryFromDocument(doc *model.Document) (model.HistoryEntry, error) {
	payload, err := json.Marshal(&doc.Activity)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	visuals, err := json.Marshal(&doc.Visuals)
	if err != nil {
		return model.HistoryEntry{}, err
	}

	return model.HistoryEntry{
		ActivityID: doc.Activity.ID,
		Title:      doc.Activity.Title,
		Level:      doc.Activity.Meta.Level,
		Date:       time.Now().Format("2006-01-02"),
		Payload:    payload,
		Visuals:    visuals,
	}, nil
}
