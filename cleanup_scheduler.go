package main

import (
	"log"
	"time"
)

const logRetentionDays = 30

// CleanupScheduler prunes old event-log rows once a day at midnight. With
// the event log disabled it does nothing.
type CleanupScheduler struct {
	loggingService *LoggingService
	ticker         *time.Ticker
	stopChan       chan bool
}

func NewCleanupScheduler(loggingService *LoggingService) *CleanupScheduler {
	return &CleanupScheduler{
		loggingService: loggingService,
		stopChan:       make(chan bool),
	}
}

func (cs *CleanupScheduler) Start() {
	if cs.loggingService == nil {
		log.Println("Event log disabled, cleanup scheduler not started")
		return
	}

	log.Println("Starting cleanup scheduler - will run daily at midnight")

	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	firstRunTimer := time.NewTimer(nextMidnight.Sub(now))

	go func() {
		select {
		case <-firstRunTimer.C:
			cs.runCleanup()
		case <-cs.stopChan:
			firstRunTimer.Stop()
			return
		}

		cs.ticker = time.NewTicker(24 * time.Hour)
		defer cs.ticker.Stop()

		for {
			select {
			case <-cs.ticker.C:
				cs.runCleanup()
			case <-cs.stopChan:
				log.Println("Cleanup scheduler stopped")
				return
			}
		}
	}()
}

func (cs *CleanupScheduler) Stop() {
	close(cs.stopChan)
	if cs.ticker != nil {
		cs.ticker.Stop()
	}
}

func (cs *CleanupScheduler) runCleanup() {
	log.Println("Starting scheduled cleanup of old log records")

	err := cs.loggingService.CleanupOldLogs(logRetentionDays)
	if err != nil {
		log.Printf("Error during cleanup: %v", err)
		return
	}

	err = cs.loggingService.VacuumDatabase()
	if err != nil {
		log.Printf("Error during VACUUM: %v", err)
		return
	}

	stats, err := cs.loggingService.GetDatabaseStats()
	if err != nil {
		log.Printf("Error getting database stats: %v", err)
		return
	}

	log.Printf("Cleanup completed, database stats: %+v", stats)
}
