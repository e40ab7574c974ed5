package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", ".env", "Configuration file to load (e.g., .env, .dev.env, .prod.env)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "promowatch - Telegram channel watcher for product and coupon alerts\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  -config string\n")
		fmt.Fprintf(os.Stderr, "        Env file to load (default: .env)\n")
		fmt.Fprintf(os.Stderr, "  -help, -h\n")
		fmt.Fprintf(os.Stderr, "        Show this help information\n\n")
		fmt.Fprintf(os.Stderr, "The rule catalog is read from %s (override with %s).\n", DEFAULT_RULES_PATH, ENV_RULES_CONFIG_PATH)
		fmt.Fprintf(os.Stderr, "Note: Environment variables override config file values\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *configFile != "" {
		err := godotenv.Load(*configFile)
		if err != nil {
			log.Printf("Warning: Failed to load config file %s: %v", *configFile, err)
			log.Println("Continuing with environment variables...")
		} else {
			log.Printf("Successfully loaded configuration from %s", *configFile)
		}
	} else {
		log.Println("No config file specified, using environment variables only")
	}

	container, err := BuildContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to build container: %v", err))
	}

	err = container.Invoke(func(app *Application) {
		if err := app.Initialize(); err != nil {
			panic(fmt.Sprintf("Failed to initialize application: %v", err))
		}

		defer app.Shutdown()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			log.Printf("Received signal %s, stopping...", sig)
			app.Stop()
		}()

		log.Println("Bot is running...")
		if err := app.Run(); err != nil {
			panic(fmt.Sprintf("Failed to run application: %v", err))
		}
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to invoke application: %v", err))
	}
}
