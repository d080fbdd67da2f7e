/*
The middleware package defines what a middleware is in trailhead and a set of basic middlewares.

The available middlewares are:
  - CORS
  - ForceHTTPS
  - Idempotent
  - InjectIPAddress
  - LogRequest
  - ProxyHeaders
  - RateLimit
  - ReportPanic
  - RequestID

Handler modules reference middlewares by name.
[DefaultSet] names the ones needing no further configuration;
extend it with [Set.With] for those that do:

	set := middleware.DefaultSet(env, log).
		With("cors", middleware.CORS("https://example.com")).
		With("idempotent", middleware.Idempotent(middleware.NewRedisCache(opts)))
*/
package middleware
