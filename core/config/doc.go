// Package config loads environment variables into typed structs and caches
// the result per type.
//
// The first call loads a .env file from the working directory when one
// exists, then parses with caarlos0/env:
//
//	type ServerConfig struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Each type is parsed once per process. A second Load of the same type
// returns the cached copy without reading the environment again; different
// types are cached independently. Reset clears the cache.
package config
