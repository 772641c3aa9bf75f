package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// links maps operation paths to their RFC 8288 Link header values.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</api/v1/deck>; rel="deck"`,
		`</api/v1/sources>; rel="sources"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
		`</api/v1/deck>; rel="deck"`,
	},
	"/api/v1/deck": {
		`</api/v1/flat>; rel="alternate"`,
		`</api/v1/sidebar>; rel="sidebar"`,
	},
	"/api/v1/flat": {
		`</api/v1/deck>; rel="alternate"`,
	},
	"/api/v1/sidebar": {
		`</api/v1/deck>; rel="deck"`,
	},
	"/api/v1/sources": {
		`</api/v1/deck>; rel="deck"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link headers.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}
		return v, nil
	}
}
