// Package pg owns the PostgreSQL side of the platform: the connection
// pool for the tenant directory, goose schema migrations, and the
// readiness probe.
//
// Connect opens a pgxpool.Pool from Config and retries with a growing
// delay until the database answers. Migrate runs the goose migrations
// from the configured directory against the same pool before the
// service starts taking traffic. Healthcheck returns a probe for the
// health endpoint.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
package pg
