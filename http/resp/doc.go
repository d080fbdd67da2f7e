/*
The resp package provides the small set of responses trailhead writes on its own behalf
and tracks whether a response has already started.

Wrap the outermost handler with [Track] so that any code further down the chain
can ask [HeadersSent] before writing a fallback response:

	http.ListenAndServe(":8080", resp.Track(app))

Responses are written with:
  - [Text] for plain text bodies such as "HTTP 404 Not Found"
  - [JSON] for structured bodies
*/
package resp
