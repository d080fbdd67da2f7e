/*
The module package defines what a handler module is in trailhead.

A handler module is one file in a routes directory.
Loading the file produces a [Module], whose [Route] declares the role the module plays:
a page, a WebSocket endpoint, an include, the catch-all, or one of the
not-found, method-not-allowed and server-error fallbacks.

What a module can do is discovered by the interfaces it implements.
A page serving GET implements [Getter]:

	type Sample struct{ module.Base }

	func (Sample) Route() (module.Route, error) { return module.Route{Path: "/sample"}, nil }

	func (Sample) Get(w http.ResponseWriter, r *http.Request, next module.Next) error {
		_, err := fmt.Fprint(w, "Sample route response")
		return err
	}

WebSocket endpoints implement the socket listener interfaces, such as [OnConnection].

A [Loader] turns a file into a Module.
[Static] serves modules compiled into the binary,
while declarative modules are loaded by the hclmodule package
and are reloaded whenever their file changes.
*/
package module
