package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityRow is the relational form of an ActivityRecord. Position keeps the
// log order (0 is the most recent record).
type ActivityRow struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Position  int       `gorm:"not null;index" json:"position"`
	Type      string    `gorm:"type:varchar(64);not null" json:"type"`
	TypeInfo  string    `gorm:"type:text;not null" json:"type_info"`
	Metadata  string    `gorm:"type:text" json:"metadata"`
	PatientID string    `gorm:"type:varchar(128);not null;index" json:"patient_id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Date      string    `gorm:"type:varchar(10);index" json:"date"`
}

func (ActivityRow) TableName() string {
	return "activity_records"
}

func NewActivityRow(record ActivityRecord, position int) (ActivityRow, error) {
	info, err := json.Marshal(record.TypeInfo)
	if err != nil {
		return ActivityRow{}, fmt.Errorf("marshal type info: %w", err)
	}
	meta, err := json.Marshal(record.Metadata)
	if err != nil {
		return ActivityRow{}, fmt.Errorf("marshal metadata: %w", err)
	}
	return ActivityRow{
		ID:        record.ID,
		Position:  position,
		Type:      string(record.Type),
		TypeInfo:  string(info),
		Metadata:  string(meta),
		PatientID: record.PatientID,
		Timestamp: record.Timestamp,
		Date:      record.Date,
	}, nil
}

func (r ActivityRow) Record() (ActivityRecord, error) {
	record := ActivityRecord{
		ID:        r.ID,
		Type:      ActivityType(r.Type),
		PatientID: r.PatientID,
		Timestamp: r.Timestamp,
		Date:      r.Date,
	}
	if err := json.Unmarshal([]byte(r.TypeInfo), &record.TypeInfo); err != nil {
		return ActivityRecord{}, fmt.Errorf("unmarshal type info of %s: %w", r.ID, err)
	}
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &record.Metadata); err != nil {
			return ActivityRecord{}, fmt.Errorf("unmarshal metadata of %s: %w", r.ID, err)
		}
	}
	return record, nil
}
