// Package config loads typed configuration from the environment.
//
// Load parses `env`-tagged structs with caarlos0/env after godotenv has
// applied the default .env file. Each configuration type is parsed at
// most once per process and cached, so every component asking for the
// same struct sees the same snapshot. LoadEnv and MustLoadEnv pull in
// extra .env files with later files overriding earlier ones; ResetCache
// and ForceReloadConfig exist for tests that mutate the environment
// between loads.
//
//	type appConfig struct {
//		Env          string `env:"APP_ENV" envDefault:"development"`
//		TenantSuffix string `env:"TENANT_DOMAIN_SUFFIX,required"`
//	}
//
//	var cfg appConfig
//	config.MustLoad(&cfg)
package config
