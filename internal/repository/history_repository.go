package repository

import (
	"worksheet_arc_backend/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// ListByUserKey 按 Position 升序返回该用户的全部快照
func (r *HistoryRepository) ListByUserKey(userKey string) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.DB.Where("user_key = ?", userKey).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

func (r *HistoryRepository) FindByActivityID(userKey string, activityID int64) (*model.HistoryEntry, error) {
	var entry model.HistoryEntry
	err := r.DB.Where("user_key = ? AND activity_id = ?", userKey, activityID).
		First(&entry).Error
	return &entry, err
}

// ReplaceAll 整表替换该用户的历史列表。列表小（几十条封顶），
// 删旧插新比逐条 diff 简单得多，Position 按切片顺序重编。
func (r *HistoryRepository) ReplaceAll(userKey string, entries []model.HistoryEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		// 硬删除，避免软删除记录堆积
		if err := tx.Unscoped().
			Where("user_key = ?", userKey).
			Delete(&model.HistoryEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].ID = 0
			entries[i].UserKey = userKey
			entries[i].Position = i
		}
		return tx.Create(&entries).Error
	})
}

func (r *HistoryRepository) DeleteAll(userKey string) error {
	return r.DB.Unscoped().
		Where("user_key = ?", userKey).
		Delete(&model.HistoryEntry{}).Error
}

func (r *HistoryRepository) CreateExportRecord(record *model.ExportRecord) error {
	return r.DB.Create(record).Error
}

func (r *HistoryRepository) ListExportRecords(userKey string, limit int) ([]model.ExportRecord, error) {
	var records []model.ExportRecord
	err := r.DB.Where("user_key = ?", userKey).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
