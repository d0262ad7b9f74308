package client

import (
	"net/url"
	"strings"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Collection segments below an automation account.
const (
	segmentModules            = "modules"
	segmentSchedules          = "schedules"
	segmentRunbooks           = "runbooks"
	segmentJobs               = "jobs"
	segmentJobSchedules       = "jobSchedules"
	segmentVariables          = "variables"
	segmentCredentials        = "credentials"
	segmentCertificates       = "certificates"
	segmentConnections        = "connections"
	segmentConnectionTypes    = "connectionTypes"
	segmentHybridWorkerGroups = "hybridRunbookWorkerGroups"
	segmentWebhooks           = "webhooks"
	segmentSourceControls     = "sourceControls"
	segmentSyncJobs           = "sourceControlSyncJobs"
	segmentStreams            = "streams"
)

// paths builds Resource Manager paths for one subscription.
type paths struct {
	subscriptionID string
}

// subscriptionAccounts is the subscription-wide account collection.
func (p paths) subscriptionAccounts() string {
	return "/subscriptions/" + url.PathEscape(p.subscriptionID) +
		"/providers/" + constants.ProviderNamespace + "/automationAccounts"
}

// accounts is the account collection of a resource group.
func (p paths) accounts(resourceGroup string) string {
	return "/subscriptions/" + url.PathEscape(p.subscriptionID) +
		"/resourceGroups/" + url.PathEscape(resourceGroup) +
		"/providers/" + constants.ProviderNamespace + "/automationAccounts"
}

func (p paths) account(resourceGroup, name string) string {
	return p.accounts(resourceGroup) + "/" + url.PathEscape(name)
}

// scoped joins segments below the account addressed by scope. Every segment
// is escaped.
func (p paths) scoped(scope automation.Scope, segments ...string) string {
	var builder strings.Builder

	builder.WriteString(p.account(scope.ResourceGroup, scope.Account))

	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}

	return builder.String()
}

// resourceGroupFromID extracts the resource group of a resource id.
func resourceGroupFromID(id string) string {
	parts := strings.Split(id, "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return parts[i+1]
		}
	}

	return ""
}
