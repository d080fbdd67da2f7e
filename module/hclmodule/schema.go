package hclmodule

import "github.com/hashicorp/hcl/v2"

type file struct {
	Route *routeBlock `hcl:"route,block"`

	Get     *methodBlock `hcl:"get,block"`
	Head    *methodBlock `hcl:"head,block"`
	Post    *methodBlock `hcl:"post,block"`
	Put     *methodBlock `hcl:"put,block"`
	Patch   *methodBlock `hcl:"patch,block"`
	Delete  *methodBlock `hcl:"delete,block"`
	Options *methodBlock `hcl:"options,block"`
	Trace   *methodBlock `hcl:"trace,block"`

	On []*onBlock `hcl:"on,block"`
}

func (f *file) methods() map[string]*methodBlock {
	all := map[string]*methodBlock{
		"get":     f.Get,
		"head":    f.Head,
		"post":    f.Post,
		"put":     f.Put,
		"patch":   f.Patch,
		"delete":  f.Delete,
		"options": f.Options,
		"trace":   f.Trace,
	}

	for k, v := range all {
		if v == nil {
			delete(all, k)
		}
	}

	return all
}

type routeBlock struct {
	Path             *string  `hcl:"path,optional"`
	Pattern          *string  `hcl:"pattern,optional"`
	Include          *bool    `hcl:"include,optional"`
	WebSocket        *bool    `hcl:"websocket,optional"`
	NotFound         *bool    `hcl:"not_found,optional"`
	MethodNotAllowed *bool    `hcl:"method_not_allowed,optional"`
	ServerError      *bool    `hcl:"server_error,optional"`
	CatchAll         *bool    `hcl:"catch_all,optional"`
	Middleware       []string `hcl:"middleware,optional"`
}

type methodBlock struct {
	Status  *int           `hcl:"status,optional"`
	Body    hcl.Expression `hcl:"body,optional"`
	JSON    hcl.Expression `hcl:"json,optional"`
	Headers hcl.Expression `hcl:"headers,optional"`
	Fail    *string        `hcl:"fail,optional"`
	Next    hcl.Expression `hcl:"next,optional"`
	Error   *errorBlock    `hcl:"error,block"`
}

type errorBlock struct {
	Status  int     `hcl:"status"`
	Message *string `hcl:"message,optional"`
	Expose  *bool   `hcl:"expose,optional"`
}

type onBlock struct {
	Event     string         `hcl:"event,label"`
	Send      hcl.Expression `hcl:"send,optional"`
	JSON      hcl.Expression `hcl:"json,optional"`
	Fail      *string        `hcl:"fail,optional"`
	Close     *bool          `hcl:"close,optional"`
	CloseCode *int           `hcl:"close_code,optional"`
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}

	return *b
}
