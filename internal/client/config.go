package client

import "time"

type Config struct {
	ServerURL string        `envconfig:"DOCBREAKER_SERVER_URL" default:"http://localhost:8080"`
	Timeout   time.Duration `envconfig:"DOCBREAKER_CLIENT_TIMEOUT" default:"5s"`
}
