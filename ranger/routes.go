package ranger

import (
	"net/http"

	"github.com/xy-planning-network/trailhead/dispatch"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
)

type routeIndexQuery struct {
	Role string `schema:"role" validate:"omitempty,oneof=catch_all include method_not_allowed not_found page server_error socket"`
}

type routeIndexEntry struct {
	Role         string   `json:"role"`
	Path         string   `json:"path,omitempty"`
	Capabilities []string `json:"capabilities"`
	Middleware   []string `json:"middleware,omitempty"`
	Module       string   `json:"module"`
}

// routeIndex lists the handler modules the Ranger serves as JSON,
// filtered to one role by the "role" query param.
func (r *Ranger) routeIndex() http.HandlerFunc {
	parser := req.NewParser()

	return func(w http.ResponseWriter, rq *http.Request) {
		var q routeIndexQuery
		if err := parser.ParseQueryParams(rq.URL.Query(), &q); err != nil {
			dispatch.Fail(w, rq, err)
			return
		}

		entries := make([]routeIndexEntry, 0)
		for _, d := range r.routes.Registry.All() {
			if q.Role != "" && d.Role() != q.Role {
				continue
			}

			entries = append(entries, routeIndexEntry{
				Role:         d.Role(),
				Path:         d.Label(),
				Capabilities: append([]string{}, d.Capabilities...),
				Middleware:   d.Middleware,
				Module:       d.ID,
			})
		}

		resp.JSON(w, rq, http.StatusOK, entries)
	}
}
