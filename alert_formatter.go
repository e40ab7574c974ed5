package main

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// maxAlertTextLen bounds the quoted message text inside an alert. The
// ellipsis marker is appended only when something was actually cut.
const maxAlertTextLen = 500

const defaultAlertTemplate = "**🚨 MATCH FOUND: {product_name}**\n\n" +
	"**Price:** {product_price}\n" +
	"**Source:** {chat_title}\n" +
	"**Link:** [Go to Message]({message_link})\n\n" +
	"**Message:**\n{message_text}"

var placeholderRegex = regexp.MustCompile(`\{([a-z_]+)\}`)

// AlertContext carries everything an alert template can reference.
type AlertContext struct {
	MatchedName string
	Price       string // empty when no price was extracted
	ChatTitle   string
	MessageLink string
	MessageText string
}

type AlertFormatter struct {
	template string
}

// NewAlertFormatter uses the configured template, or the built-in default
// when the rules document does not set one.
func NewAlertFormatter(template string) *AlertFormatter {
	if template == "" {
		template = defaultAlertTemplate
	}
	return &AlertFormatter{template: template}
}

// Format renders the alert for a matched message. Rendering never fails the
// pipeline: a template referencing an unknown placeholder falls back to the
// fixed minimal name/price/link shape.
func (f *AlertFormatter) Format(match MatchResult, price string, chatTitle string, channelID int64, messageID int, messageText string) string {
	ctx := AlertContext{
		MatchedName: match.Name,
		Price:       price,
		ChatTitle:   chatTitle,
		MessageLink: MessageLink(channelID, messageID),
		MessageText: TruncateText(messageText, maxAlertTextLen),
	}

	rendered, err := renderTemplate(f.template, ctx)
	if err != nil {
		log.Printf("Error formatting template: %v. Using fallback.", err)
		return fallbackAlert(ctx)
	}
	return rendered
}

func fallbackAlert(ctx AlertContext) string {
	return fmt.Sprintf("Match: %s\nPrice: %s\nLink: %s", ctx.MatchedName, priceOrPlaceholder(ctx.Price), ctx.MessageLink)
}

func priceOrPlaceholder(price string) string {
	if price == "" {
		return "N/A"
	}
	return price
}

// renderTemplate substitutes the named placeholders. Any placeholder outside
// the known set makes the whole rendering fail so the caller can fall back.
func renderTemplate(template string, ctx AlertContext) (string, error) {
	values := map[string]string{
		"product_name":  ctx.MatchedName,
		"product_price": priceOrPlaceholder(ctx.Price),
		"chat_title":    ctx.ChatTitle,
		"message_link":  ctx.MessageLink,
		"message_text":  ctx.MessageText,
	}

	unknown := ""
	rendered := placeholderRegex.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := values[name]
		if !ok {
			if unknown == "" {
				unknown = name
			}
			return token
		}
		return value
	})
	if unknown != "" {
		return "", fmt.Errorf("unknown placeholder {%s}", unknown)
	}
	return rendered, nil
}

// MessageLink builds the t.me permalink for a channel message. Private
// channel IDs carry a -100 prefix in their numeric form; t.me/c links use
// the suffix without it.
func MessageLink(channelID int64, messageID int) string {
	id := strconv.FormatInt(channelID, 10)
	id = strings.TrimPrefix(id, "-100")
	return fmt.Sprintf("https://t.me/c/%s/%d", id, messageID)
}

// TruncateText caps text at limit runes. Truncating an already-truncated
// text at the same bound yields the same text.
func TruncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
