package conf

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(loggerSetting.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if CfgIf("LoggerFile") {
		out := &lumberjack.Logger{
			Filename:  filepath.Join(loggerFileSetting.SavePath, loggerFileSetting.FileName+loggerFileSetting.FileExt),
			MaxSize:   loggerFileSetting.MaxSize,
			MaxAge:    loggerFileSetting.MaxAge,
			LocalTime: true,
		}
		logrus.SetOutput(io.MultiWriter(os.Stdout, out))
	}
}
