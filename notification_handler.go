package main

import (
	"log"
)

// NotificationHandler drains rendered alerts and pushes each one through the
// notification sink. Delivery failure is logged and dropped; it never stops
// the pipeline.
func NotificationHandler(alerts chan Alert, telegramService *TelegramService, loggingService *LoggingService) {
	for alert := range alerts {
		if !telegramService.Enabled() {
			log.Printf("Match found for %s! But %s is missing, alert not sent.", alert.Name, ENV_TELEGRAM_BOT_TOKEN)
			continue
		}

		err := telegramService.SendAlert(alert.Text)
		if err != nil {
			log.Printf("Failed to send alert for %s: %v", alert.Name, err)
			logDispatch(loggingService, alert.EventUUID, false, err.Error())
			continue
		}

		log.Printf("Match found! Sent push notification for %s.", alert.Name)
		logDispatch(loggingService, alert.EventUUID, true, "")
	}
}

func logDispatch(loggingService *LoggingService, eventUUID string, success bool, errorMessage string) {
	if loggingService == nil {
		return
	}
	if err := loggingService.LogDispatch(eventUUID, success, errorMessage); err != nil {
		log.Printf("Error logging dispatch: %v", err)
	}
}
