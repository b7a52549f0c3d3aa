// Package strapiclient provides the primary entry point for constructing a
// Strapi v5 REST API client that implements the strapi.Client interface.
//
// It layers configuration, HTTP transport and authentication on top of the
// manager interfaces and types defined in the strapi package. Most
// applications should import strapiclient to build a client, then use the
// returned strapi.Client to obtain managers, for example Collection("articles")
// or Single("homepage").
//
// Quick start
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
//
//	  // Public content, no auth.
//	  cli, err := strapiclient.NewWithEndpoint(ctx, "http://localhost:1337/api")
//	  if err != nil { log.Fatal(err) }
//
//	  // With an API token from the admin panel:
//	  cli, err = strapiclient.NewWithToken(ctx, "http://localhost:1337/api", "token")
//
//	  // With an end-user account of the users-permissions plugin. The login
//	  // happens immediately and the JWT is renewed when it expires.
//	  cli, err = strapiclient.NewWithCredentials(ctx, "http://localhost:1337/api", "user@example.com", "secret")
//
//	  homepage, err := cli.Single("homepage").Find(ctx, strapi.NewQueryParams().WithPopulate("*"))
//	  if err != nil { log.Fatal(err) }
//	  _ = homepage
//	}
//
// # Configuration
//
// New accepts a *strapi.Config with the base URL, an optional AuthConfig
// selecting a registered strategy ("api-token" or "users-permissions"),
// extra headers, timeout, retry and logging settings. The base URL is
// normalised by trimming a trailing slash and adding "https://" when no
// scheme is present.
package strapiclient
