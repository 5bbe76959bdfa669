package enrichment

import (
	"github.com/mssola/user_agent"
)

const unknown = "unknown"

// ClientInfo describes the software behind a request's User-Agent header.
type ClientInfo struct {
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string
}

func ParseUserAgent(uaString string) ClientInfo {
	if uaString == "" {
		return ClientInfo{Browser: unknown, OS: unknown, DeviceType: unknown}
	}

	ua := user_agent.New(uaString)

	info := ClientInfo{DeviceType: "desktop"}
	info.Browser, info.BrowserVersion = ua.Browser()
	info.OS = ua.OS()

	switch {
	case ua.Bot():
		info.DeviceType = "bot"
	case ua.Mobile():
		info.DeviceType = "mobile"
	}

	if info.Browser == "" {
		info.Browser = unknown
	}
	if info.OS == "" {
		info.OS = unknown
	}

	return info
}
