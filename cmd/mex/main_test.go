package main

import (
	"context"
	"log/slog"
	"testing"
)

func TestHostFromURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://my-venue.example.com/metrics_es/logstash-*/_search", "my-venue.example.com", false},
		{"https://my-venue.example.com:9200/metrics_es/logstash-*/_search", "my-venue.example.com:9200", false},
		{"http://localhost:9200/_search", "localhost:9200", false},
		{"not-a-url", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := hostFromURL(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("hostFromURL(%q) error = nil, want error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("hostFromURL(%q) error = %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("hostFromURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"verbose", slog.LevelInfo, slog.LevelDebug},
		{"warning", slog.LevelWarn, slog.LevelInfo},
		{"anything-else", slog.LevelWarn, slog.LevelInfo},
	}
	ctx := context.Background()
	for _, c := range cases {
		log := newLogger(c.level)
		if !log.Enabled(ctx, c.enabled) {
			t.Errorf("newLogger(%q) should log at %v", c.level, c.enabled)
		}
		if log.Enabled(ctx, c.muted) {
			t.Errorf("newLogger(%q) should not log at %v", c.level, c.muted)
		}
	}
}
