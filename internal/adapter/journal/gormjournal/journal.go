// Package gormjournal is the append-only event journal behind the
// Observer and the replay tool. A postgres DSN opens postgres; any other
// DSN is treated as a sqlite file path, which is the usual single-agent
// setup.
package gormjournal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"loothound/internal/app/ports"
)

type eventRecord struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	AdventurerID uint64    `gorm:"index:idx_events_adventurer_time,priority:1"`
	Type         string    `gorm:"size:64"`
	OccurredAt   time.Time `gorm:"index:idx_events_adventurer_time,priority:2"`
	Payload      []byte
}

func (eventRecord) TableName() string { return "events" }

type Journal struct {
	db *gorm.DB
}

func Open(dsn string) (*Journal, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.AutoMigrate(&eventRecord{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Append(ctx context.Context, adventurerID uint64, events []ports.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]eventRecord, 0, len(events))
	for _, e := range events {
		payload, _ := json.Marshal(e.Data)
		rows = append(rows, eventRecord{
			AdventurerID: adventurerID,
			Type:         e.Type,
			OccurredAt:   e.OccurredAt,
			Payload:      payload,
		})
	}
	return j.db.WithContext(ctx).Create(&rows).Error
}

func (j *Journal) List(ctx context.Context, adventurerID uint64, limit int) ([]ports.Event, error) {
	rows := []eventRecord{}
	query := j.db.WithContext(ctx).
		Where(&eventRecord{AdventurerID: adventurerID}).
		Order("occurred_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.Event, 0, len(rows))
	for _, row := range rows {
		var data map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &data)
		}
		out = append(out, ports.Event{Type: row.Type, OccurredAt: row.OccurredAt, Data: data})
	}
	return out, nil
}
