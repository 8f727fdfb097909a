package blacklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		class   string
		title   string
		entries []string
		want    bool
	}{
		{name: "case differs", class: "Discord", entries: []string{"discord"}, want: false},
		{name: "exact class", class: "Discord", entries: []string{"Discord"}, want: true},
		{name: "exact title", class: "firefox", title: "Signal", entries: []string{"Signal"}, want: true},
		{name: "no trimming", class: "Discord ", entries: []string{"Discord"}, want: false},
		{name: "substring is not a match", title: "Discord - general", entries: []string{"Discord"}, want: false},
		{name: "empty list", class: "Discord", title: "Discord", entries: nil, want: false},
		{name: "empty strings match empty entry", entries: []string{""}, want: true},
		{name: "later entry", class: "Telegram", entries: []string{"brave-browser", "Signal", "Telegram"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.class, tt.title, tt.entries))
		})
	}
}

func TestListIsImmutable(t *testing.T) {
	entries := []string{"Discord"}
	l := New(entries)
	entries[0] = "Signal"

	assert.True(t, l.Contains("Discord", ""))
	assert.False(t, l.Contains("Signal", ""))

	got := l.Entries()
	got[0] = "Telegram"
	assert.Equal(t, []string{"Discord"}, l.Entries())
	assert.Equal(t, 1, l.Len())
}

func TestFindReturnsFirstMatchingEntry(t *testing.T) {
	l := New([]string{"Signal", "Discord", "Discord - general"})

	entry, ok := l.Find("Discord", "Discord - general")
	assert.True(t, ok)
	assert.Equal(t, "Discord", entry)

	_, ok = l.Find("firefox", "Mozilla Firefox")
	assert.False(t, ok)
}
