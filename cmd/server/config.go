package main

import "time"

type Config struct {
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath      string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,required=true"`
	JWTSecret          string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration  time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	TypingTTL          time.Duration `env:"TYPING_TTL,default=6s"`
	TypingReapInterval time.Duration `env:"TYPING_REAP_INTERVAL,default=2s"`
	StatsInterval      time.Duration `env:"STATS_INTERVAL,default=30s"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	SearchBatchSize    int           `env:"SEARCH_BATCH_SIZE,default=50"`
	SearchPageSize     int           `env:"SEARCH_PAGE_SIZE,default=10"`
	Host               string        `env:"HOST,default=localhost"`
	Port               int           `env:"PORT,default=8080"`
}
