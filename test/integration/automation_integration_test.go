//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// AutomationIntegrationTestSuite exercises the library against a live account
type AutomationIntegrationTestSuite struct {
	suite.Suite

	config  *TestConfig
	client  automation.Client
	scope   automation.Scope
	ctx     context.Context
	cancel  context.CancelFunc
	cleanup []func()
}

// SetupSuite builds the client for the configured account
func (s *AutomationIntegrationTestSuite) SetupSuite() {
	s.config = LoadTestConfig()
	s.config.SkipIfMissingConfig(s.T())

	s.ctx, s.cancel = context.WithTimeout(context.Background(), 30*time.Minute)
	s.scope = s.config.Scope()

	client, err := s.config.NewClient(s.ctx)
	s.Require().NoError(err)

	s.client = client

	_, err = s.client.Accounts().Get(s.ctx, s.scope.ResourceGroup, s.scope.Account)
	s.Require().NoError(err, "test account must exist")
}

// TearDownSuite removes everything the tests created
func (s *AutomationIntegrationTestSuite) TearDownSuite() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}

	if s.cancel != nil {
		s.cancel()
	}
}

func (s *AutomationIntegrationTestSuite) deferCleanup(fn func()) {
	s.cleanup = append(s.cleanup, fn)
}

func (s *AutomationIntegrationTestSuite) TestVariableLifecycle() {
	name := GenerateTestName("it-variable")

	s.deferCleanup(func() { _ = s.client.Variables().Delete(context.Background(), s.scope, name) })

	created, err := s.client.Variables().Create(s.ctx, s.scope, &automation.CreateVariableRequest{
		Name:        name,
		Value:       map[string]any{"replicas": 3},
		Description: "integration test",
	})
	s.Require().NoError(err)
	s.JSONEq(`{"replicas":3}`, created.Value)

	_, err = s.client.Variables().Create(s.ctx, s.scope, &automation.CreateVariableRequest{Name: name, Value: 1})
	s.True(automation.IsAlreadyExists(err))

	updated, err := s.client.Variables().Update(s.ctx, s.scope, &automation.UpdateVariableRequest{
		Name:  name,
		Mode:  automation.VariableUpdateValue,
		Value: "scaled",
	})
	s.Require().NoError(err)
	s.Equal(`"scaled"`, updated.Value)
	s.Equal("integration test", updated.Description)

	s.Require().NoError(s.client.Variables().Delete(s.ctx, s.scope, name))

	_, found, err := s.client.Variables().TryGet(s.ctx, s.scope, name)
	s.Require().NoError(err)
	s.False(found)
}

func (s *AutomationIntegrationTestSuite) TestRunbookLifecycle() {
	name := GenerateTestName("it-runbook")

	s.deferCleanup(func() { _ = s.client.Runbooks().Delete(context.Background(), s.scope, name) })

	path := filepath.Join(s.T().TempDir(), name+".ps1")
	s.Require().NoError(os.WriteFile(path, []byte("param([string]$Greeting = 'hello')\nWrite-Output $Greeting\n"), 0o600))

	runbook, err := s.client.Runbooks().Import(s.ctx, s.scope, &automation.ImportRunbookRequest{Path: path, Published: true})
	s.Require().NoError(err)
	s.Equal(name, runbook.Name)
	s.True(runbook.HasPublished())

	job, err := s.client.Runbooks().Start(s.ctx, s.scope, name, &automation.StartRunbookRequest{
		Parameters: map[string]any{"Greeting": "integration"},
	})
	s.Require().NoError(err)

	WaitForCondition(s.T(), func() bool {
		current, err := s.client.Jobs().Get(s.ctx, s.scope, job.ID)
		if err != nil {
			return false
		}

		job = current

		return job.Status == automation.JobStatusCompleted || job.Status == automation.JobStatusFailed
	}, 15*time.Minute, "runbook job to finish")

	s.Equal(automation.JobStatusCompleted, job.Status)

	output, err := s.client.Jobs().GetOutput(s.ctx, s.scope, job.ID)
	s.Require().NoError(err)
	s.Contains(output, "integration")

	exported, err := s.client.Runbooks().Export(s.ctx, s.scope, name, &automation.ExportRunbookRequest{
		Slot:         automation.SlotPublished,
		OutputFolder: s.T().TempDir(),
	})
	s.Require().NoError(err)
	s.FileExists(exported)
}

func (s *AutomationIntegrationTestSuite) TestScheduleBinding() {
	runbookName := GenerateTestName("it-scheduled")
	scheduleName := GenerateTestName("it-schedule")

	s.deferCleanup(func() { _ = s.client.Runbooks().Delete(context.Background(), s.scope, runbookName) })
	s.deferCleanup(func() { _ = s.client.Schedules().Delete(context.Background(), s.scope, scheduleName) })

	_, err := s.client.Runbooks().Create(s.ctx, s.scope, &automation.CreateRunbookRequest{
		Name: runbookName,
		Type: automation.RunbookTypePowerShell,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.client.Runbooks().SetDraftContent(s.ctx, s.scope, runbookName, strings.NewReader("Write-Output 'tick'\n")))

	_, err = s.client.Runbooks().Publish(s.ctx, s.scope, runbookName)
	s.Require().NoError(err)

	_, err = s.client.Schedules().Create(s.ctx, s.scope, &automation.CreateScheduleRequest{
		Name:      scheduleName,
		StartTime: time.Now().Add(24 * time.Hour),
		Interval:  1,
		Frequency: automation.FrequencyDay,
	})
	s.Require().NoError(err)

	binding, err := s.client.JobSchedules().Register(s.ctx, s.scope, &automation.RegisterJobScheduleRequest{
		RunbookName:  runbookName,
		ScheduleName: scheduleName,
	})
	s.Require().NoError(err)

	found, err := s.client.JobSchedules().GetByPair(s.ctx, s.scope, runbookName, scheduleName)
	s.Require().NoError(err)
	s.Equal(binding.ID, found.ID)

	s.Require().NoError(s.client.JobSchedules().UnregisterByPair(s.ctx, s.scope, runbookName, scheduleName))

	byRunbook, err := s.client.JobSchedules().ListByRunbook(s.ctx, s.scope, runbookName)
	s.Require().NoError(err)
	s.Empty(byRunbook)
}

func (s *AutomationIntegrationTestSuite) TestMissingResources() {
	_, err := s.client.Runbooks().Get(s.ctx, s.scope, GenerateTestName("it-missing"))
	s.True(automation.IsNotFound(err))

	err = s.client.Schedules().Delete(s.ctx, s.scope, GenerateTestName("it-missing"))
	s.True(automation.IsNotFound(err))
}

func TestAutomationIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AutomationIntegrationTestSuite))
}
