/*
The hclmodule package loads declarative handler modules written in HCL.

One .hcl file is one module:

	route {
	  path       = "/users/{id}"
	  middleware = ["request_id"]
	}

	get {
	  status  = 200
	  body    = "user ${param.id} via ${upper(method)}"
	  headers = { "X-Route" = "users" }
	}

	post {
	  error {
	    status  = 409
	    message = "user already exists"
	  }
	}

A method block is named for the HTTP method it serves and responds with either body or json.
fail returns an unhandled error, error passes a status error to the error handler
and next falls through to the next handler when true,
e.g. next = path == "/404".
next may be any boolean expression, e.g. next = path == "/404".

Expressions are evaluated per request with these variables:

	path    the request path
	method  the request method, lowercase
	param   the path parameters matched by the route

and the functions upper, lower, format and jsonencode.

WebSocket endpoints declare on blocks named for the event, where message holds the frame received:

	on "message" {
	  send = "echo: ${message}"
	}

Since a file is parsed on every Load, editing it takes effect on the next reload.
*/
package hclmodule
