package database

import (
	"strings"
	"testing"
)

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		sslMode string
	}{
		{name: "ローカルはSSLなし", cfg: Config{Host: "localhost", Port: 5432}, sslMode: "sslmode=disable"},
		{name: "ループバック", cfg: Config{Host: "127.0.0.1", Port: 5432}, sslMode: "sslmode=disable"},
		{name: "リモートはSSL必須", cfg: Config{Host: "db.internal", Port: 5432}, sslMode: "sslmode=require"},
		{name: "明示した値を使う", cfg: Config{Host: "db.internal", Port: 5432, SSLMode: "verify-full"}, sslMode: "sslmode=verify-full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := tt.cfg.DSN()
			if !strings.HasSuffix(dsn, tt.sslMode) {
				t.Errorf("DSN() = %q, want suffix %q", dsn, tt.sslMode)
			}
			if !strings.Contains(dsn, "host="+tt.cfg.Host) {
				t.Errorf("DSN() = %q, want host %s", dsn, tt.cfg.Host)
			}
		})
	}
}
