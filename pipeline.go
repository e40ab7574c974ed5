package main

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// Alert is a rendered alert ready for dispatch, tagged with the event that
// produced it for the audit log.
type Alert struct {
	EventUUID string
	Name      string
	Text      string
}

// PipelineHandler consumes message events one at a time: classify, extract
// the price, resolve the chat title, render the alert and queue it for
// dispatch. A bad event is logged and abandoned, the stream keeps going.
// Alerts leave in the same order their events arrived.
func PipelineHandler(events chan MessageEvent, alerts chan Alert, classifier *Classifier, formatter *AlertFormatter, resolver ChatResolver, loggingService *LoggingService) {
	defer close(alerts)

	for event := range events {
		eventUUID := uuid.New().String()
		started := time.Now()

		log.Printf("Message received in %d: %s", event.ChannelID, TruncateText(event.Text, 30))

		match := classifier.Classify(event.ChannelID, event.Text)
		if match.Kind == MatchNone {
			log.Println("No regex match.")
			logEvent(loggingService, eventUUID, event, match, "", false, "", started)
			continue
		}

		price, _ := ExtractPrice(event.Text)

		chatTitle := event.ChatTitle
		if chatTitle == "" && resolver != nil {
			title, err := resolver.ChatTitle(event.ChannelID)
			if err != nil {
				log.Printf("Abandoning event %d/%d, chat lookup failed: %v", event.ChannelID, event.MessageID, err)
				logEvent(loggingService, eventUUID, event, match, price, false, err.Error(), started)
				continue
			}
			chatTitle = title
		}
		if chatTitle == "" {
			chatTitle = "Unknown"
		}

		alertText := formatter.Format(match, price, chatTitle, event.ChannelID, event.MessageID, event.Text)

		logEvent(loggingService, eventUUID, event, match, price, true, "", started)

		alerts <- Alert{EventUUID: eventUUID, Name: match.Name, Text: alertText}
	}
}

func logEvent(loggingService *LoggingService, eventUUID string, event MessageEvent, match MatchResult, price string, alerted bool, errorMessage string, started time.Time) {
	if loggingService == nil {
		return
	}
	err := loggingService.LogEvent(eventUUID, event, match, price, alerted, errorMessage, int(time.Since(started).Milliseconds()))
	if err != nil {
		log.Printf("Error logging event: %v", err)
	}
}
