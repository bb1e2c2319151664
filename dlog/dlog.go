package dlog

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type dWriter struct {
	out io.Writer
}

// RdsClientToLog, when set, receives a copy of every log line in a sorted set.
var RdsClientToLog *redis.Client = nil

func (dr dWriter) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	if rc := RdsClientToLog; rc != nil && level >= zerolog.InfoLevel {
		key := "portfoliolog:" + getMachineName()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		rc.ZAdd(ctx, key, redis.Z{Score: float64(time.Now().UnixNano()), Member: string(p)})
		cancel()
	}
	return dr.Write(p)
}
func (dr dWriter) Write(p []byte) (n int, err error) {
	if _, err = dr.out.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

var Logger = zerolog.New(dWriter{out: os.Stdout}).With().Timestamp().Logger()

// SetOutput redirects log lines, mostly for tests.
func SetOutput(w io.Writer) {
	Logger = zerolog.New(dWriter{out: w}).With().Timestamp().Logger()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}
func Info() *zerolog.Event {
	return Logger.Info()
}
func Warn() *zerolog.Event {
	return Logger.Warn()
}
func Error() *zerolog.Event {
	return Logger.Error()
}
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}
func Panic() *zerolog.Event {
	return Logger.Panic()
}
