package main

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LoggingService is the operational event log: every processed event and
// every dispatch attempt leaves one row. It is best-effort observability,
// not state - the pipeline works identically with a nil service.
type LoggingService struct {
	db *gorm.DB
}

// NewLoggingService opens the event-log database at dbPath.
func NewLoggingService(dbPath string) (*LoggingService, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to logging database: %w", err)
	}

	service := &LoggingService{db: db}

	if err := service.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run logging migrations: %w", err)
	}

	return service, nil
}

func (s *LoggingService) runMigrations() error {
	return s.db.AutoMigrate(
		&EventLogModel{},
		&DispatchLogModel{},
	)
}

// LogEvent records the classification outcome of one message event.
func (s *LoggingService) LogEvent(eventUUID string, event MessageEvent, match MatchResult, price string, alerted bool, errorMessage string, processingTime int) error {
	eventLog := EventLogModel{
		EventUUID:      eventUUID,
		ChannelID:      event.ChannelID,
		MessageID:      event.MessageID,
		MatchKind:      match.Kind.String(),
		MatchName:      match.Name,
		Price:          price,
		TextPreview:    TruncateText(event.Text, 120),
		Alerted:        alerted,
		ErrorMessage:   errorMessage,
		ProcessingTime: processingTime,
		ProcessedAt:    time.Now(),
	}
	return s.db.Create(&eventLog).Error
}

// LogDispatch records one alert delivery attempt.
func (s *LoggingService) LogDispatch(eventUUID string, success bool, errorMessage string) error {
	dispatchLog := DispatchLogModel{
		EventUUID:    eventUUID,
		IsSuccess:    success,
		ErrorMessage: errorMessage,
		DispatchedAt: time.Now(),
	}
	return s.db.Create(&dispatchLog).Error
}

// GetEventCountByDay returns how many events were processed on a given day.
func (s *LoggingService) GetEventCountByDay(date time.Time) (int64, error) {
	var count int64
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	err := s.db.Model(&EventLogModel{}).
		Where("processed_at >= ? AND processed_at < ?", startOfDay, endOfDay).
		Count(&count).Error

	return count, err
}

// GetMatchCountByKind returns how many events of a match kind were logged.
func (s *LoggingService) GetMatchCountByKind(kind string) (int64, error) {
	var count int64
	err := s.db.Model(&EventLogModel{}).
		Where("match_kind = ?", kind).
		Count(&count).Error
	return count, err
}

// CleanupOldLogs removes log rows older than retentionDays.
func (s *LoggingService) CleanupOldLogs(retentionDays int) error {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	if err := s.db.Unscoped().Where("processed_at < ?", cutoff).Delete(&EventLogModel{}).Error; err != nil {
		return fmt.Errorf("failed to cleanup event logs: %w", err)
	}
	if err := s.db.Unscoped().Where("dispatched_at < ?", cutoff).Delete(&DispatchLogModel{}).Error; err != nil {
		return fmt.Errorf("failed to cleanup dispatch logs: %w", err)
	}
	return nil
}

// VacuumDatabase reclaims file space after a cleanup.
func (s *LoggingService) VacuumDatabase() error {
	return s.db.Exec("VACUUM").Error
}

// GetDatabaseStats returns row counts per log table.
func (s *LoggingService) GetDatabaseStats() (map[string]int64, error) {
	stats := map[string]int64{}

	var eventCount int64
	if err := s.db.Model(&EventLogModel{}).Count(&eventCount).Error; err != nil {
		return nil, err
	}
	stats["event_logs"] = eventCount

	var dispatchCount int64
	if err := s.db.Model(&DispatchLogModel{}).Count(&dispatchCount).Error; err != nil {
		return nil, err
	}
	stats["dispatch_logs"] = dispatchCount

	return stats, nil
}

func (s *LoggingService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
