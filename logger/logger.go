package logger

import (
	"os"

	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

// Init builds the process-wide sugared logger. Production JSON output by
// default; set PURSUIT_ENV=development for console output at debug level.
func Init() {
	var cfg zap.Config
	if os.Getenv("PURSUIT_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Named("pursuit").Sugar()
}
