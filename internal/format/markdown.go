package format

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len returns the length of s in UTF-16 code units, the unit Telegram
// uses for entity offsets.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

var markers = []struct {
	token  string
	entity string
}{
	{"**", "bold"},
	{"`", "code"},
}

// ParseMarkdown strips **bold** and `code` markers from text and returns the
// matching Telegram entities. Unpaired markers are kept as literal text.
func ParseMarkdown(text string) ParseResult {
	var (
		out      strings.Builder
		entities []tgbotapi.MessageEntity
		offset   int
	)

	for len(text) > 0 {
		matched := false
		for _, m := range markers {
			if !strings.HasPrefix(text, m.token) {
				continue
			}
			rest := text[len(m.token):]
			end := strings.Index(rest, m.token)
			if end <= 0 {
				continue
			}
			inner := rest[:end]
			length := UTF16Len(inner)
			entities = append(entities, tgbotapi.MessageEntity{Type: m.entity, Offset: offset, Length: length})
			out.WriteString(inner)
			offset += length
			text = rest[end+len(m.token):]
			matched = true
			break
		}
		if matched {
			continue
		}

		r, size := utf8.DecodeRuneInString(text)
		out.WriteString(text[:size])
		offset += utf16.RuneLen(r)
		text = text[size:]
	}

	return ParseResult{
		Text:     strings.TrimRight(out.String(), " \n"),
		Entities: entities,
	}
}
