package service

import (
	"context"
	"encoding/json"
	"testing"

	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryStore struct {
	entries map[string][]model.HistoryEntry
}

func newFakeHistoryStore() *fakeHistoryStore {
	return &fakeHistoryStore{entries: map[string][]model.HistoryEntry{}}
}

func (f *fakeHistoryStore) ListByUserKey(userKey string) ([]model.HistoryEntry, error) {
	out := make([]model.HistoryEntry, len(f.entries[userKey]))
	copy(out, f.entries[userKey])
	return out, nil
}

func (f *fakeHistoryStore) ReplaceAll(userKey string, entries []model.HistoryEntry) error {
	stored := make([]model.HistoryEntry, len(entries))
	copy(stored, entries)
	for i := range stored {
		stored[i].Position = i
	}
	f.entries[userKey] = stored
	return nil
}

func (f *fakeHistoryStore) DeleteAll(userKey string) error {
	delete(f.entries, userKey)
	return nil
}

type fakeCurrentStore struct {
	docs map[string]*model.Document
}

func newFakeCurrentStore() *fakeCurrentStore {
	return &fakeCurrentStore{docs: map[string]*model.Document{}}
}

func (f *fakeCurrentStore) Get(ctx context.Context, userKey string) (*model.Document, error) {
	doc, ok := f.docs[userKey]
	if !ok {
		return nil, util.ErrNoCurrentActivity
	}
	clone := *doc
	return &clone, nil
}

func (f *fakeCurrentStore) Set(ctx context.Context, userKey string, doc *model.Document) error {
	clone := *doc
	f.docs[userKey] = &clone
	return nil
}

func (f *fakeCurrentStore) Clear(ctx context.Context, userKey string) error {
	delete(f.docs, userKey)
	return nil
}

func newTestHistoryService() (*HistoryService, *fakeHistoryStore, *fakeCurrentStore) {
	h := newFakeHistoryStore()
	c := newFakeCurrentStore()
	return &HistoryService{History: h, Current: c}, h, c
}

func testDocument(id int64, uids ...string) *model.Document {
	questions := make([]model.Question, len(uids))
	for i, uid := range uids {
		questions[i] = model.Question{UID: uid, QuestionText: "q-" + uid}
	}
	return &model.Document{
		Activity: model.Activity{
			ID:    id,
			Title: "Tides",
			Meta:  model.ActivityMeta{Level: model.LevelB1, Type: model.TypeComprehension},
			StudentWorksheet: model.StudentWorksheet{
				Instructions: "Answer everything.",
				Questions:    questions,
			},
		},
		Visuals: model.Visuals{ThemeColors: model.ThemeColors{Primary: "#4f46e5"}},
	}
}

const userKey = "d:test-device"

func TestSetField(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, userKey, testDocument(1, "a")))

	doc, err := s.SetField(ctx, userKey, "title", "New Title")
	require.NoError(t, err)
	assert.Equal(t, "New Title", doc.Activity.Title)

	doc, err = s.SetField(ctx, userKey, "instructions", "Do it.")
	require.NoError(t, err)
	assert.Equal(t, "Do it.", doc.Activity.StudentWorksheet.Instructions)

	_, err = s.SetField(ctx, userKey, "meta", "nope")
	assert.Error(t, err)
}

func TestSetFieldWithoutCurrentDocument(t *testing.T) {
	s, _, _ := newTestHistoryService()
	_, err := s.SetField(context.Background(), userKey, "title", "x")
	assert.ErrorIs(t, err, util.ErrNoCurrentActivity)
}

func TestEditQuestion(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, userKey, testDocument(1, "a", "b")))

	doc, err := s.EditQuestion(ctx, userKey, &EditQuestionRequest{
		Index: 1, Field: "question_text", Value: json.RawMessage(`"edited"`),
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", doc.Activity.StudentWorksheet.Questions[1].QuestionText)

	doc, err = s.EditQuestion(ctx, userKey, &EditQuestionRequest{
		Index: 0, Field: "options", Value: json.RawMessage(`["True","False"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"True", "False"}, doc.Activity.StudentWorksheet.Questions[0].Options)
}

// 陈旧下标是并发重排/删除的正常产物：静默忽略，不报错不 panic
func TestEditQuestionStaleIndexIsNoOp(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, userKey, testDocument(1, "a")))

	for _, idx := range []int{-1, 1, 99} {
		doc, err := s.EditQuestion(ctx, userKey, &EditQuestionRequest{
			Index: idx, Field: "question_text", Value: json.RawMessage(`"x"`),
		})
		require.NoError(t, err)
		assert.Equal(t, "q-a", doc.Activity.StudentWorksheet.Questions[0].QuestionText)
	}
}

func TestReorderQuestions(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, userKey, testDocument(1, "a", "b", "c", "d")))

	doc, err := s.ReorderQuestions(ctx, userKey, "a", "c")
	require.NoError(t, err)

	got := make([]string, 0, 4)
	for _, q := range doc.Activity.StudentWorksheet.Questions {
		got = append(got, q.UID)
	}
	// 单元素搬移，不是交换
	assert.Equal(t, []string{"b", "c", "a", "d"}, got)
}

func TestReorderPreservesSetMembership(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, userKey, testDocument(1, "a", "b", "c")))

	doc, err := s.ReorderQuestions(ctx, userKey, "c", "a")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, q := range doc.Activity.StudentWorksheet.Questions {
		seen[q.UID] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
	assert.Len(t, doc.Activity.StudentWorksheet.Questions, 3)
}

func TestReorderUnknownUIDIsNoOp(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, userKey, testDocument(1, "a", "b")))

	doc, err := s.ReorderQuestions(ctx, userKey, "ghost", "b")
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Activity.StudentWorksheet.Questions[0].UID)
}

func TestDeleteQuestion(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, userKey, testDocument(1, "a", "b")))

	doc, err := s.DeleteQuestion(ctx, userKey, 0)
	require.NoError(t, err)
	require.Len(t, doc.Activity.StudentWorksheet.Questions, 1)
	assert.Equal(t, "b", doc.Activity.StudentWorksheet.Questions[0].UID)

	// 越界同样静默
	doc, err = s.DeleteQuestion(ctx, userKey, 9)
	require.NoError(t, err)
	assert.Len(t, doc.Activity.StudentWorksheet.Questions, 1)
}

func TestAddToHistoryPrepends(t *testing.T) {
	s, h, _ := newTestHistoryService()
	ctx := context.Background()

	require.NoError(t, s.AddToHistory(ctx, userKey, testDocument(1, "a")))
	require.NoError(t, s.AddToHistory(ctx, userKey, testDocument(2, "b")))

	entries := h.entries[userKey]
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ActivityID, "newest entry sits first")
	assert.Equal(t, int64(1), entries[1].ActivityID)
	assert.Equal(t, 0, entries[0].Position)
}

func TestUpdateHistoryItemSyncsCurrent(t *testing.T) {
	s, h, c := newTestHistoryService()
	ctx := context.Background()

	doc := testDocument(7, "a")
	require.NoError(t, s.AddToHistory(ctx, userKey, doc))
	require.NoError(t, c.Set(ctx, userKey, doc))

	edited := doc.Activity
	edited.Title = "Edited Tides"
	require.NoError(t, s.UpdateHistoryItem(ctx, userKey, &edited))

	entries := h.entries[userKey]
	require.Len(t, entries, 1)
	assert.Equal(t, "Edited Tides", entries[0].Title)

	var stored model.Activity
	require.NoError(t, json.Unmarshal(entries[0].Payload, &stored))
	assert.Equal(t, "Edited Tides", stored.Title)

	current, err := c.Get(ctx, userKey)
	require.NoError(t, err)
	assert.Equal(t, "Edited Tides", current.Activity.Title)
}

func TestUpdateHistoryItemMissing(t *testing.T) {
	s, _, _ := newTestHistoryService()
	a := testDocument(99, "a").Activity
	err := s.UpdateHistoryItem(context.Background(), userKey, &a)
	assert.ErrorIs(t, err, util.ErrHistoryNotFound)
}

func TestDeleteHistoryItemClearsDisplayedDocument(t *testing.T) {
	s, h, c := newTestHistoryService()
	ctx := context.Background()

	doc := testDocument(5, "a")
	require.NoError(t, s.AddToHistory(ctx, userKey, doc))
	require.NoError(t, c.Set(ctx, userKey, doc))

	require.NoError(t, s.DeleteHistoryItem(ctx, userKey, 5))
	assert.Empty(t, h.entries[userKey])

	_, err := c.Get(ctx, userKey)
	assert.ErrorIs(t, err, util.ErrNoCurrentActivity)
}

func TestDeleteHistoryItemKeepsUnrelatedCurrent(t *testing.T) {
	s, _, c := newTestHistoryService()
	ctx := context.Background()

	require.NoError(t, s.AddToHistory(ctx, userKey, testDocument(5, "a")))
	require.NoError(t, c.Set(ctx, userKey, testDocument(6, "b")))

	require.NoError(t, s.DeleteHistoryItem(ctx, userKey, 5))

	current, err := c.Get(ctx, userKey)
	require.NoError(t, err)
	assert.Equal(t, int64(6), current.Activity.ID)
}

func TestMoveHistoryItem(t *testing.T) {
	s, h, _ := newTestHistoryService()
	ctx := context.Background()

	require.NoError(t, s.AddToHistory(ctx, userKey, testDocument(1, "a")))
	require.NoError(t, s.AddToHistory(ctx, userKey, testDocument(2, "b")))
	require.NoError(t, s.AddToHistory(ctx, userKey, testDocument(3, "c")))
	// 列表现为 [3, 2, 1]

	require.NoError(t, s.MoveHistoryItem(ctx, userKey, 1, "up"))
	ids := historyIDs(h.entries[userKey])
	assert.Equal(t, []int64{3, 1, 2}, ids)

	// 顶部再上移是无操作
	require.NoError(t, s.MoveHistoryItem(ctx, userKey, 3, "up"))
	assert.Equal(t, []int64{3, 1, 2}, historyIDs(h.entries[userKey]))

	assert.Error(t, s.MoveHistoryItem(ctx, userKey, 3, "sideways"))
}

func TestLoadFromHistoryBackfillsUIDs(t *testing.T) {
	s, h, c := newTestHistoryService()
	ctx := context.Background()

	// 模拟早期无 uid 的存量快照
	activity := testDocument(11, "keep").Activity
	activity.StudentWorksheet.Questions = append(activity.StudentWorksheet.Questions,
		model.Question{QuestionText: "legacy question"})
	payload, err := json.Marshal(&activity)
	require.NoError(t, err)
	h.entries[userKey] = []model.HistoryEntry{{
		ActivityID: 11,
		Title:      activity.Title,
		Payload:    payload,
	}}

	doc, err := s.LoadFromHistory(ctx, userKey, 11)
	require.NoError(t, err)

	require.Len(t, doc.Activity.StudentWorksheet.Questions, 2)
	assert.Equal(t, "keep", doc.Activity.StudentWorksheet.Questions[0].UID)
	assert.NotEmpty(t, doc.Activity.StudentWorksheet.Questions[1].UID)

	current, err := c.Get(ctx, userKey)
	require.NoError(t, err)
	assert.Equal(t, int64(11), current.Activity.ID)
}

func TestLoadFromHistoryMissing(t *testing.T) {
	s, _, _ := newTestHistoryService()
	_, err := s.LoadFromHistory(context.Background(), userKey, 404)
	assert.ErrorIs(t, err, util.ErrHistoryNotFound)
}

func TestClearHistory(t *testing.T) {
	s, h, c := newTestHistoryService()
	ctx := context.Background()

	doc := testDocument(1, "a")
	require.NoError(t, s.AddToHistory(ctx, userKey, doc))
	require.NoError(t, c.Set(ctx, userKey, doc))

	require.NoError(t, s.ClearHistory(ctx, userKey))
	assert.Empty(t, h.entries[userKey])
	_, err := c.Get(ctx, userKey)
	assert.ErrorIs(t, err, util.ErrNoCurrentActivity)
}

func historyIDs(entries []model.HistoryEntry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ActivityID)
	}
	return ids
}
