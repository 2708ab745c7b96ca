package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "8080" || cfg.Mongo.Database != "safespace" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %s", cfg.JWTTTL)
	}
	if cfg.SOS.Workers != 8 || cfg.SOS.AckTimeout != 5*time.Second || cfg.SOS.LockTTL != 10*time.Second {
		t.Errorf("unexpected sos defaults: %+v", cfg.SOS)
	}
	want := []string{"sms", "email", "push"}
	if len(cfg.Notify.Channels) != len(want) {
		t.Fatalf("expected channels %v, got %v", want, cfg.Notify.Channels)
	}
	for i := range want {
		if cfg.Notify.Channels[i] != want[i] {
			t.Errorf("channel %d: got %s, want %s", i, cfg.Notify.Channels[i], want[i])
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "secret",
		"ENV":             "production",
		"SOS_WORKERS":     "3",
		"SOS_ACK_TIMEOUT": "250ms",
		"NOTIFY_CHANNELS": "PUSH, sms",
	}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production env")
	}
	if cfg.SOS.Workers != 3 || cfg.SOS.AckTimeout != 250*time.Millisecond {
		t.Errorf("unexpected sos config: %+v", cfg.SOS)
	}
	if len(cfg.Notify.Channels) != 2 || cfg.Notify.Channels[0] != "push" || cfg.Notify.Channels[1] != "sms" {
		t.Errorf("unexpected channels: %v", cfg.Notify.Channels)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_UnknownChannel(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "secret",
		"NOTIFY_CHANNELS": "sms,pigeon",
	}))
	if err == nil {
		t.Fatal("expected error for unknown channel")
	}
}
