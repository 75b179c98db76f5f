// Package logger arma el logger estructurado del servicio sobre zerolog.
// En production la salida es JSON línea a línea; en development y staging se
// usa la consola legible de zerolog.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger, pobladas desde pkg/config (APP_ENV, LOG_LEVEL).
type Config struct {
	Env   string // development, staging, production
	Level string // trace, debug, info, warn, error; info si viene vacío o no parsea
}

// Logger expone la API de zerolog por embedding; los sitios de llamada usan
// Info()/Error()/Fatal() directamente.
type Logger struct {
	zerolog.Logger
}

// New construye el logger del servicio según entorno y nivel.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if cfg.Env == "production" {
		zl = zerolog.New(os.Stdout)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	zl = zl.Level(level).With().Timestamp().Logger()

	// Las librerías que escriben por el logger global de zerolog comparten destino
	log.Logger = zl

	return &Logger{Logger: zl}
}
