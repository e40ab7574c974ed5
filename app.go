package main

import (
	"context"
	"log"
	"sync"
)

type Application struct {
	config           *Config
	catalog          *RuleCatalog
	channels         *Channels
	classifier       *Classifier
	formatter        *AlertFormatter
	telegramService  *TelegramService
	transport        Transport
	loggingService   *LoggingService
	cleanupScheduler *CleanupScheduler

	cancel context.CancelFunc
}

func NewApplication(
	config *Config,
	catalog *RuleCatalog,
	channels *Channels,
	classifier *Classifier,
	formatter *AlertFormatter,
	telegramService *TelegramService,
	transport Transport,
	loggingService *LoggingService,
	cleanupScheduler *CleanupScheduler,
) (*Application, error) {
	return &Application{
		config:           config,
		catalog:          catalog,
		channels:         channels,
		classifier:       classifier,
		formatter:        formatter,
		telegramService:  telegramService,
		transport:        transport,
		loggingService:   loggingService,
		cleanupScheduler: cleanupScheduler,
	}, nil
}

func (app *Application) Initialize() error {
	log.Printf("Monitoring %d product channels and %d coupon channels.", app.catalog.ProductChannelCount(), app.catalog.CouponChannelCount())
	log.Printf("Tracking %d products and %d stores.", len(app.catalog.Products), len(app.catalog.Stores))

	if !app.telegramService.Enabled() {
		log.Printf("%s is missing, alerts will be computed but not sent. Check your .env file.", ENV_TELEGRAM_BOT_TOKEN)
	}

	app.cleanupScheduler.Start()

	return nil
}

// Run wires the stages together: transport feeds the event channel, the
// pipeline turns matched events into alerts, the notification handler
// drains them. One consumer per channel keeps alert order equal to event
// order.
func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if app.transport == nil {
			log.Println("No transport configured, waiting for shutdown")
			<-ctx.Done()
			close(app.channels.EventCh)
			return
		}
		app.transport.Listen(ctx, app.channels.EventCh)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		PipelineHandler(app.channels.EventCh, app.channels.AlertCh, app.classifier, app.formatter, app.transport, app.loggingService)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		NotificationHandler(app.channels.AlertCh, app.telegramService, app.loggingService)
	}()

	wg.Wait()
	return nil
}

// Stop asks the run loop to wind down. In-flight events finish best-effort.
func (app *Application) Stop() {
	if app.cancel != nil {
		app.cancel()
	}
}

func (app *Application) Shutdown() {
	log.Println("Shutting down application...")

	app.Stop()
	app.cleanupScheduler.Stop()

	if app.loggingService != nil {
		app.loggingService.Close()
	}

	log.Println("Application shutdown completed")
}
