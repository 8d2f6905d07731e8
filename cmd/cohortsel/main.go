package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).With().Timestamp().Caller().Logger()
	if err := Execute(log); err != nil {
		log.Error().Err(err).Msg("cohortsel failed")
		os.Exit(1)
	}
}
