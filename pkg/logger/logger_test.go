package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/dayronmiranda/StoreManage/pkg/logger"
)

func TestNew_NivelConfigurado(t *testing.T) {
	casos := []struct {
		nivel    string
		esperado zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"WARN", zerolog.WarnLevel}, // insensible a mayúsculas
	}
	for _, caso := range casos {
		t.Run(caso.nivel, func(t *testing.T) {
			log := logger.New(logger.Config{Env: "production", Level: caso.nivel})
			assert.Equal(t, caso.esperado, log.GetLevel())
		})
	}
}

func TestNew_NivelInvalidoCaeAInfo(t *testing.T) {
	log := logger.New(logger.Config{Env: "development", Level: "verboso"})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log = logger.New(logger.Config{Env: "development"})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel(), "sin nivel configurado el default es info")
}
