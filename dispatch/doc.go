/*
The dispatch package turns a directory of handler modules into routers.

A [Dispatcher] discovers the modules with a [module.Loader],
builds a web router and a socket router from them and
handles whatever errors the modules leave unhandled:

	d := dispatch.New(hclmodule.NewLoader(), dispatch.OptionsFromEnv()...)
	d.On(dispatch.EventError, func(ev dispatch.Event) { ... })

	app := dispatch.NewApp()
	app.UseError(d.Error)
	if _, err := d.SetRoutes(ctx, "routes", app); err != nil {
		...
	}

	http.ListenAndServe(":8080", app)

Requests to a page with a method it does not serve get the method not allowed module, or a 405.
Requests matching no page go to the catch all module, then the not found module, or a 404.
Errors a module returns or panics with go to the server error module, or a 500,
after listeners are notified.
Errors passed to next go through [Dispatcher.Error].

WebSocket requests to a path no module listens on are accepted and closed with status 4404.
*/
package dispatch
