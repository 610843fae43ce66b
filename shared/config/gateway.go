package config

import (
	"strings"
	"time"
)

// Gateway holds the upstream locations the API gateway proxies to.
type Gateway struct {
	AuthURL         string
	UserURL         string
	TransactionURL  string
	NoteURL         string
	UpstreamTimeout time.Duration
}

func LoadGateway() *Gateway {
	return &Gateway{
		AuthURL:         upstreamURL("AUTH_SERVICE_URL", "http://localhost:8081"),
		UserURL:         upstreamURL("USER_SERVICE_URL", "http://localhost:8082"),
		TransactionURL:  upstreamURL("TRANSACTION_SERVICE_URL", "http://localhost:8083"),
		NoteURL:         upstreamURL("NOTE_SERVICE_URL", "http://localhost:8084"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
	}
}

func upstreamURL(key, fallback string) string {
	return strings.TrimSuffix(getEnv(key, fallback), "/")
}
