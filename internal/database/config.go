package database

import "time"

type Config struct {
	FilePath string `envconfig:"DOCBREAKER_DB_FILE_PATH" default:"docbreaker.db"`

	// How long to wait for the file lock held by another process
	OpenTimeout time.Duration `envconfig:"DOCBREAKER_DB_OPEN_TIMEOUT" default:"1s"`
}
