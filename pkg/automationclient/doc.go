// Package automationclient provides the primary entry point for constructing
// an Azure Automation client that implements the automation.Client interface.
//
// It layers endpoint normalization, HTTP transport and authentication on top
// of the resource interfaces and types defined in the automation package.
// Most applications import automationclient to build a client, then use the
// returned automation.Client to reach the resource clients, for example
// Runbooks(), Jobs() or Webhooks().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/automation-client/pkg/automation"
//	  "github.com/fivetwenty-io/automation-client/pkg/automationclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With an access token you already have:
//	  cli, err := automationclient.NewWithToken(ctx, "00000000-0000-0000-0000-000000000000", "eyJhbGciOi...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with any oauth2.TokenSource:
//	  cli, err = automationclient.New(ctx, &automation.Config{
//	    SubscriptionID: "00000000-0000-0000-0000-000000000000",
//	    TokenSource:    source,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  scope := automation.Scope{ResourceGroup: "rg1", Account: "acct1"}
//	  runbooks, err := cli.Runbooks().List(ctx, scope, "")
//	  if err != nil { log.Fatal(err) }
//	  _ = runbooks
//	}
//
// # Endpoints
//
// The management endpoint defaults to https://management.azure.com. Sovereign
// clouds pass their own endpoint; a missing scheme is completed with https://
// and a trailing slash is removed.
package automationclient
