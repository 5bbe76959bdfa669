package enrichment

import (
	"testing"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name        string
		ua          string
		wantBrowser string
		wantDevice  string
	}{
		{
			name:        "desktop chrome",
			ua:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			wantBrowser: "Chrome",
			wantDevice:  "desktop",
		},
		{
			name:        "mobile safari",
			ua:          "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			wantBrowser: "Safari",
			wantDevice:  "mobile",
		},
		{
			name:       "bot",
			ua:         "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			wantDevice: "bot",
		},
		{
			name:        "empty",
			ua:          "",
			wantBrowser: "unknown",
			wantDevice:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseUserAgent(tt.ua)
			if tt.wantBrowser != "" && info.Browser != tt.wantBrowser {
				t.Errorf("expected browser %q, got %q", tt.wantBrowser, info.Browser)
			}
			if info.DeviceType != tt.wantDevice {
				t.Errorf("expected device %q, got %q", tt.wantDevice, info.DeviceType)
			}
		})
	}
}
