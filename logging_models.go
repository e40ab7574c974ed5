package main

import (
	"time"

	"gorm.io/gorm"
)

// EventLogModel records one processed message event and its classification
// outcome. The pipeline only ever writes here; nothing reads the log back
// into matching decisions.
type EventLogModel struct {
	gorm.Model
	EventUUID      string    `gorm:"column:event_uuid;uniqueIndex" json:"event_uuid"`
	ChannelID      int64     `gorm:"column:channel_id;index" json:"channel_id"`
	MessageID      int       `gorm:"column:message_id" json:"message_id"`
	MatchKind      string    `gorm:"column:match_kind;index" json:"match_kind"`
	MatchName      string    `gorm:"column:match_name;index" json:"match_name"`
	Price          string    `gorm:"column:price" json:"price"`
	TextPreview    string    `gorm:"column:text_preview" json:"text_preview"`
	Alerted        bool      `gorm:"column:alerted" json:"alerted"`
	ErrorMessage   string    `gorm:"column:error_message" json:"error_message,omitempty"`
	ProcessingTime int       `gorm:"column:processing_time" json:"processing_time"` // milliseconds
	ProcessedAt    time.Time `gorm:"column:processed_at;index" json:"processed_at"`
}

func (EventLogModel) TableName() string {
	return "event_logs"
}

// DispatchLogModel records the outcome of each alert delivery attempt.
type DispatchLogModel struct {
	gorm.Model
	EventUUID    string    `gorm:"column:event_uuid;index" json:"event_uuid"`
	IsSuccess    bool      `gorm:"column:is_success" json:"is_success"`
	ErrorMessage string    `gorm:"column:error_message" json:"error_message,omitempty"`
	DispatchedAt time.Time `gorm:"column:dispatched_at;index" json:"dispatched_at"`
}

func (DispatchLogModel) TableName() string {
	return "dispatch_logs"
}
