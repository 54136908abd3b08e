package main

import (
	"github.com/rs/zerolog/log"

	"blogosphere/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
