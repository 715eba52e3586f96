package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. It must be initialized with Init()
// before use (app.Run and test TestMains take care of this).
var Log *logrus.Logger

func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)

	if os.Getenv("APP_ENV") == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		Log.SetLevel(logrus.DebugLevel)
	}
}
