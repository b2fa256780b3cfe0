package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one row of the key-value table backing the record stores.
type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

type EntryRepository struct {
	database *gorm.DB
	now      func() time.Time
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database, now: time.Now}
}

func (repo *EntryRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := repo.database.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (repo *EntryRepository) Set(ctx context.Context, key string, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: repo.now().UTC()}
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (repo *EntryRepository) Delete(ctx context.Context, key string) error {
	return repo.database.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

func (repo *EntryRepository) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	err := repo.database.WithContext(ctx).Model(&Entry{}).Order("entry_key ASC").Pluck("entry_key", &keys).Error
	return keys, err
}
