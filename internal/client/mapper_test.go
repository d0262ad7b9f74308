package client

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func TestMapper_Account(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	wire := &armAccount{
		ID:       "/subscriptions/sub/resourceGroups/rg-from-id/providers/Microsoft.Automation/automationAccounts/acct",
		Name:     "acct",
		Location: "westeurope",
		Tags:     map[string]string{"env": "prod"},
		Properties: armAccountProperties{
			Sku:          &armSku{Name: "Basic"},
			State:        "Ok",
			CreationTime: &created,
		},
	}

	want := automation.Account{
		ResourceGroup: "rg-from-id",
		Name:          "acct",
		Location:      "westeurope",
		Plan:          "Basic",
		State:         "Ok",
		Tags:          automation.Tags{"env": "prod"},
		CreationTime:  &created,
	}

	got := NewMapper().Account("", wire)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Account() mismatch (-want +got):\n%s", diff)
	}

	wire.Tags["env"] = "dev"
	if got.Tags["env"] != "prod" {
		t.Errorf("Account() tags share storage with the wire shape")
	}
}

func TestMapper_Runbook(t *testing.T) {
	t.Parallel()

	logProgress := true
	wire := &armRunbook{
		Name: "deploy",
		Properties: armRunbookProperties{
			RunbookType: "PowerShell",
			State:       "Edit",
			LogProgress: &logProgress,
			JobCount:    4,
			Parameters: map[string]armRunbookParameter{
				"Environment": {Type: "System.String", IsMandatory: true, Position: 0},
				"Retries":     {Type: "System.Int32", Position: 1, DefaultValue: "3"},
			},
		},
	}

	want := automation.Runbook{
		ResourceGroup: testResourceGroup,
		AccountName:   testAccount,
		Name:          "deploy",
		Type:          automation.RunbookTypePowerShell,
		State:         automation.RunbookStateEdit,
		LogProgress:   true,
		JobCount:      4,
		Parameters: map[string]automation.RunbookParameter{
			"Environment": {Type: "System.String", IsMandatory: true, Position: 0},
			"Retries":     {Type: "System.Int32", Position: 1, DefaultValue: "3"},
		},
	}

	if diff := cmp.Diff(want, NewMapper().Runbook(testScope, wire)); diff != "" {
		t.Errorf("Runbook() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapper_VariableHidesEncryptedValue(t *testing.T) {
	t.Parallel()

	value := `"secret"`
	encrypted := true
	description := "db password"

	got := NewMapper().Variable(testScope, &armVariable{
		Name:       "db",
		Properties: armVariableProperties{Value: &value, IsEncrypted: &encrypted, Description: &description},
	})

	want := automation.Variable{
		ResourceGroup: testResourceGroup,
		AccountName:   testAccount,
		Name:          "db",
		Encrypted:     true,
		Description:   "db password",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Variable() mismatch (-want +got):\n%s", diff)
	}
}
