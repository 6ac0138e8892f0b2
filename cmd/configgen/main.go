package main

import (
	"flag"

	"github.com/danmuck/mavlink/internal/config"
	"github.com/danmuck/mavlink/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	output := flag.String("output", "cmd/linkctl/config.toml", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "cmd/linkctl/config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	logging.ConfigureRuntime()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal().Err(err).Str("path", *input).Msg("configgen.validate")
		}
		log.Info().Str("path", *input).Str("link", cfg.Link.Name).Str("endpoint", cfg.Endpoint).Msg("configgen.validated")
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal().Err(err).Str("path", *output).Msg("configgen.write")
	}
	log.Info().Str("path", *output).Msg("configgen.wrote")
}
