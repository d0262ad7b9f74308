// Package automation provides types, interfaces, and helpers for working with
// the Azure Automation management API.
//
// # Overview
//
// The automation package defines the domain types (Account, Runbook, Job,
// Schedule, Variable, Webhook, SourceControl, ...) and the interfaces for the
// resource-oriented clients (RunbooksClient, JobsClient, ...). A concrete
// implementation is provided by the automationclient package, which wires
// configuration, transport, and authentication. Most consumers import
// automationclient to construct a client and then work with the interfaces
// declared here.
//
// Getting a client
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
//	  cli, err := automationclient.New(ctx, &automation.Config{
//	    SubscriptionID: "00000000-0000-0000-0000-000000000000",
//	    AccessToken:    token,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  scope := automation.Scope{ResourceGroup: "rg1", Account: "acct1"}
//	  page, err := cli.Runbooks().List(ctx, scope, "")
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Scopes
//
// Every entity below an automation account is addressed by a Scope, the
// (resource group, account) pair. Nothing crosses that boundary.
//
// # Pagination
//
// List operations take an opaque cursor and return a Page holding one batch
// plus the cursor of the next one. An empty cursor starts a listing; an empty
// NextLink means the listing is exhausted:
//
//	cursor := ""
//	for {
//	  page, err := cli.Jobs().List(ctx, scope, nil, cursor)
//	  if err != nil { return err }
//	  consume(page.Items)
//	  if page.NextLink == "" { break }
//	  cursor = page.NextLink
//	}
//
// The Pager, FetchAll, FindFirst and Filter helpers wrap that loop.
//
// # Errors
//
// Remote failures surface as *ResponseError. The client normalizes the
// service's "absent resource" shapes (404, 204 on delete, ResourceNotFound and
// ResourceGroupNotFound error codes) to *NotFoundError. Local precondition
// failures are reported as *AlreadyExistsError, *InvalidArgumentError or
// *OperationFailedError before any request is sent. Use IsNotFound,
// IsAlreadyExists, IsInvalidArgument and IsOperationFailed to branch on them.
package automation
