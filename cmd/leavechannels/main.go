// leavechannels makes the bot leave the chats whose IDs are passed as
// arguments (or every channel in the rules document with -all), pacing the
// requests to stay clear of API flood limits.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type rulesDocument struct {
	Channels       []interface{} `yaml:"channels"`
	CouponChannels []interface{} `yaml:"coupon_channels"`
}

func main() {
	configFile := flag.String("config", ".env", "Env file with telegram_bot_token")
	rulesFile := flag.String("rules", "config.yml", "Rules document, used with -all")
	all := flag.Bool("all", false, "Leave every channel listed in the rules document")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	if !*all && len(flag.Args()) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-yes] <channel id> [<channel id> ...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-yes] -all [-rules config.yml]\n", os.Args[0])
		os.Exit(1)
	}

	var ids []int64
	if *all {
		var err error
		ids, err = readChannelIDs(*rulesFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *rulesFile, err)
		}
		if len(ids) == 0 {
			fmt.Println("No channels configured.")
			return
		}
	} else {
		for _, arg := range flag.Args() {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				log.Fatalf("Channel id %q is not numeric", arg)
			}
			ids = append(ids, id)
		}
	}

	godotenv.Load(*configFile)

	token := os.Getenv("telegram_bot_token")
	if token == "" {
		log.Fatal("telegram_bot_token is not set")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}

	if !*yes {
		fmt.Println(strings.Repeat("!", 40))
		fmt.Printf("WARNING: You are about to leave %d channel(s)/group(s):\n", len(ids))
		for _, id := range ids {
			fmt.Printf(" - %d\n", id)
		}
		fmt.Println(strings.Repeat("!", 40))
		fmt.Print("Are you sure you want to proceed? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			fmt.Println("Operation cancelled. No changes were made.")
			return
		}
	}

	// One leave request per second, the pacing the interactive original used.
	limiter := rate.NewLimiter(rate.Every(time.Second), 1)

	fmt.Println("Processing leave requests...")
	for _, id := range ids {
		if err := limiter.Wait(context.Background()); err != nil {
			log.Fatalf("Rate limiter: %v", err)
		}
		_, err := bot.Request(tgbotapi.LeaveChatConfig{ChatID: id})
		if err != nil {
			fmt.Printf("[ERROR] Failed to leave %d: %v\n", id, err)
			continue
		}
		fmt.Printf("[SUCCESS] Left: %d\n", id)
	}
	fmt.Println("Done.")
}

// readChannelIDs returns the deduplicated union of both channel lists.
func readChannelIDs(path string) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := rulesDocument{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	seen := map[int64]struct{}{}
	var ids []int64
	for _, raw := range append(doc.Channels, doc.CouponChannels...) {
		id, err := toChannelID(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func toChannelID(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("channel id %q is not numeric", v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("channel id has unsupported type %T", raw)
	}
}
