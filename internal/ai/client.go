package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/reminder"
)

// ErrNotAReminder is returned when the message does not ask for a reminder.
var ErrNotAReminder = errors.New("message is not a reminder request")

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Result is the parsed form of a free-text reminder request.
type Result struct {
	Draft reminder.Draft
	// NeedMoreInfo is set when the request lacks a title or a date; FollowUp
	// then holds the question to ask.
	NeedMoreInfo bool
	FollowUp     string
	Message      string
}

type response struct {
	Action         string `json:"action"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	RecurrenceType string `json:"recurrence_type"`
	EndType        string `json:"end_type"`
	EndCount       int    `json:"end_count"`
	EndDate        string `json:"end_date"`
	NeedMoreInfo   bool   `json:"need_more_info"`
	FollowUp       string `json:"follow_up_prompt"`
	Message        string `json:"ai_message"`
}

const systemPromptTemplate = `You turn a personal reminder request into structured fields.

Current time: %s

Rules:
1. Resolve relative dates ("tomorrow", "next monday", "in 3 hours") against the current time.
   date is YYYY-MM-DD; time is 24-hour HH:MM, or an empty string for an all-day reminder.
2. recurrence_type is one of none, daily, weekdays, weekly, biweekly, monthly, yearly.
   "every weekday" and "on workdays" mean weekdays; "every other week" means biweekly.
3. end_type is never, after_occurrences or on_date.
   "5 times" means after_occurrences with end_count 5; "until June 30" means on_date with end_date.
   Use end_count 0 and end_date "" when they do not apply.
4. action is create_reminder for reminder requests and unknown for anything else.
5. When the title or the date is missing, set need_more_info and ask in follow_up_prompt.
6. ai_message is a short friendly confirmation or reply.`

var draftSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"action": {"type": "string", "enum": ["create_reminder", "unknown"]},
		"title": {"type": "string", "description": "What to be reminded about"},
		"date": {"type": "string", "description": "YYYY-MM-DD"},
		"time": {"type": "string", "description": "HH:MM 24-hour, empty for all day"},
		"recurrence_type": {"type": "string", "enum": ["none", "daily", "weekdays", "weekly", "biweekly", "monthly", "yearly"]},
		"end_type": {"type": "string", "enum": ["never", "after_occurrences", "on_date"]},
		"end_count": {"type": "integer", "minimum": 0},
		"end_date": {"type": "string", "description": "YYYY-MM-DD or empty"},
		"need_more_info": {"type": "boolean"},
		"follow_up_prompt": {"type": "string"},
		"ai_message": {"type": "string"}
	},
	"required": ["action", "title", "date", "time", "recurrence_type", "end_type", "end_count", "end_date", "need_more_info", "follow_up_prompt", "ai_message"],
	"additionalProperties": false
}`)

// ParseDraft asks the model to turn text into a reminder draft. The draft is
// not validated here; the reminder service does that on Add.
func (c *Client) ParseDraft(ctx context.Context, text string, now time.Time) (*Result, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02 15:04 (Monday)")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "reminder_draft",
				Schema: draftSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}
	return decode(resp.Choices[0].Message.Content)
}

func decode(content string) (*Result, error) {
	var r response
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if r.Action != "create_reminder" {
		return &Result{Message: r.Message}, ErrNotAReminder
	}

	res := &Result{
		NeedMoreInfo: r.NeedMoreInfo,
		FollowUp:     r.FollowUp,
		Message:      r.Message,
		Draft: reminder.Draft{
			Title:          r.Title,
			Date:           r.Date,
			Time:           r.Time,
			RecurrenceType: models.RecurrenceType(r.RecurrenceType),
			EndType:        models.EndType(r.EndType),
		},
	}
	switch res.Draft.EndType {
	case models.EndAfterOccurrences:
		res.Draft.EndValue = models.CountEnd(r.EndCount)
	case models.EndOnDate:
		res.Draft.EndValue = models.DateEnd(r.EndDate)
	}
	if !res.NeedMoreInfo && (r.Title == "" || r.Date == "") {
		res.NeedMoreInfo = true
		if res.FollowUp == "" {
			res.FollowUp = "What should I remind you about, and when?"
		}
	}
	return res, nil
}
