// Package strapi provides types, interfaces, and helpers for working with the
// Strapi v5 REST content API.
//
// # Overview
//
// The strapi package defines the response envelopes (CollectionResponse,
// SingleResponse, File), the manager interfaces (CollectionTypeManager,
// SingleTypeManager, FilesManager) and the pure request-shaping helpers they
// share. A concrete implementation is provided by the strapiclient package,
// which wires configuration, transport and authentication.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/strapi-client/pkg/strapi"
//	  "github.com/fivetwenty-io/strapi-client/pkg/strapiclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := strapiclient.NewWithToken(ctx, "http://localhost:1337/api", "token")
//	  if err != nil { log.Fatal(err) }
//
//	  articles, err := cli.Collection("articles").Find(ctx, strapi.NewQueryParams().
//	    WithFilters(strapi.Object{strapi.F("title", strapi.Object{strapi.F("$contains", "go")})}).
//	    WithSort("createdAt:desc").
//	    WithPagination(1, 10))
//	  if err != nil { log.Fatal(err) }
//	  _ = articles
//	}
//
// # Query parameters
//
// QueryParams is ordered: keys are serialized in the order they were set,
// nested objects become bracketed keys (filters[title][$contains]=go) and
// slices become indexed keys (sort[0]=name:asc). Use Object to keep the order
// of nested keys; plain Go maps are serialized in sorted key order. Undefined
// values are skipped while nil serializes as the literal "null".
//
// # Paths and payloads
//
// ResolveRootPath derives a resource root from an explicit path, a plugin
// prefix or the bare resource name, in that order. ShouldWrapPayload decides
// whether a write body is sent as {"data": ...}; plugins such as
// users-permissions expect the raw payload.
//
// # Errors
//
// Non-2xx responses are returned as *HTTPError, which unwraps to a status
// class sentinel (ErrNotFound, ErrUnauthorized, ...). Failures without a
// response are *ConnectionError. IsNotFound, IsUnauthorized and IsForbidden
// make it easy to branch on common cases.
package strapi
