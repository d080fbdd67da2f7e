/*
Package router routes HTTP requests to handlers, as a thin wrapper around [mux.Router].

A [Router] leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A path, or a regular expression matching the whole path, and an HTTP method comprise a Route.
An implementation of [http.Handler] is the function called when a request matches a Route.
Before a request gets to a handler, though,
any middlewares added to the Route are called in the order they appear.

Routes match in the order they are registered, which lets a Router express fallbacks:

	r := router.New()
	r.Handle(router.Route{Path: "/sample", Method: http.MethodGet, Handler: sample})
	r.Handle(router.Route{Path: "/sample", Handler: methodNotAllowed})
	r.CatchAll(catchAll)
	r.HandleNotFound(notFound)
*/
package router
