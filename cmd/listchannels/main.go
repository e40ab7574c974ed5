// listchannels resolves every channel listed in the rules document to its
// title via the bot API, so the IDs in config.yml can be checked against
// real chats before running the watcher.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type rulesDocument struct {
	Channels       []interface{} `yaml:"channels"`
	CouponChannels []interface{} `yaml:"coupon_channels"`
}

func main() {
	configFile := flag.String("config", ".env", "Env file with telegram_bot_token")
	rulesFile := flag.String("rules", "config.yml", "Rules document with the channel lists")
	flag.Parse()

	godotenv.Load(*configFile)

	token := os.Getenv("telegram_bot_token")
	if token == "" {
		log.Fatal("telegram_bot_token is not set")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}

	ids, err := readChannelIDs(*rulesFile)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *rulesFile, err)
	}
	if len(ids) == 0 {
		fmt.Println("No channels configured.")
		return
	}

	fmt.Println("Fetching your channels and groups...")
	for _, id := range ids {
		chat, err := bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: id}})
		if err != nil {
			fmt.Printf("Name: <unresolved: %v> | ID: %d\n", err, id)
			continue
		}
		fmt.Printf("Name: %s | ID: %d\n", chat.Title, id)
	}
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
