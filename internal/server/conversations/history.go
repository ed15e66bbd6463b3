package conversations

import (
	"context"
	"strings"
	"time"

	"github.com/synogpt/synogpt/internal/logging"
)

// UntitledTitle is used for conversations without a user turn.
const UntitledTitle = "Untitled Conversation"

// titleMaxLen is the character cap before a title is truncated with an ellipsis.
const titleMaxLen = 28

// Sidebar group names, in display order.
const (
	GroupToday     = "Today"
	GroupYesterday = "Yesterday"
	GroupWeek      = "Previous 7 Days"
	GroupMonth     = "Previous 30 Days"
)

// Item is one selectable sidebar entry. Index addresses the conversation in
// the stored slice, so a click can load the right turn list back.
type Item struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// Group is a named recency bucket of sidebar entries, newest first.
type Group struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Title derives the sidebar label for a conversation: the first user turn,
// trimmed, cut to 28 characters with a trailing ellipsis when longer.
func Title(c Conversation) string {
	for _, msg := range c.Messages {
		if msg.Role != RoleUser {
			continue
		}
		title := strings.TrimSpace(msg.Content)
		if r := []rune(title); len(r) > titleMaxLen {
			return string(r[:titleMaxLen]) + "..."
		}
		return title
	}
	return UntitledTitle
}

// Bucket partitions the visible subset of conversations into the four
// recency groups relative to now, iterating newest-first. The day delta is
// the calendar-day difference in local time: 0 routes to Today, 1 to
// Yesterday, up to 7 to the week group, up to 30 to the month group.
// Older conversations are omitted from the view but stay in storage.
// Conversations with unparseable timestamps are skipped with a warning.
func Bucket(ctx context.Context, convs []Conversation, now time.Time, logger logging.Logger) []Group {
	groups := []Group{
		{Name: GroupToday},
		{Name: GroupYesterday},
		{Name: GroupWeek},
		{Name: GroupMonth},
	}

	for i := len(convs) - 1; i >= 0; i-- {
		ts, err := parseTimestamp(convs[i].Timestamp)
		if err != nil {
			logger.Warn(ctx, "skipping conversation with malformed timestamp",
				"index", i, "timestamp", convs[i].Timestamp, "error", err)
			continue
		}

		delta := calendarDays(ts, now)
		item := Item{Index: i, Title: Title(convs[i])}

		switch {
		case delta == 0:
			groups[0].Items = append(groups[0].Items, item)
		case delta == 1:
			groups[1].Items = append(groups[1].Items, item)
		case delta > 1 && delta <= 7:
			groups[2].Items = append(groups[2].Items, item)
		case delta > 7 && delta <= 30:
			groups[3].Items = append(groups[3].Items, item)
		}
	}

	return groups
}

// timestampLayouts covers RFC 3339 (what Save writes) and zone-less ISO-8601
// strings found in documents written by earlier tooling.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// calendarDays returns the number of local calendar-day boundaries between
// ts and now. Timestamps in the future count as negative and fall outside
// every bucket.
func calendarDays(ts, now time.Time) int {
	y1, m1, d1 := ts.In(time.Local).Date()
	y2, m2, d2 := now.In(time.Local).Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.Local)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.Local)
	return int(b.Sub(a).Hours() / 24)
}
