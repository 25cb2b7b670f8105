package bootstrap

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func testAppConfig() AppConfig {
	return AppConfig{
		MongoURI:                "mongodb://localhost:27017",
		MongoDatabase:           "trackhub",
		StorageLocalPath:        "./uploads/tickets",
		InvitationSweepInterval: time.Hour,
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	if err := ValidateConfig(nil, testAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "not-a-uri" }},
		{"empty storage path", func(c *AppConfig) { c.StorageLocalPath = "" }},
		{"sweep interval too short", func(c *AppConfig) { c.InvitationSweepInterval = time.Second }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testAppConfig()
			tc.mutate(&cfg)
			if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
