package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quantraven93/court-tracker-api/databases/mocks"
	"github.com/quantraven93/court-tracker-api/models"
	"github.com/quantraven93/court-tracker-api/pipeline"
)

func emptyBatchPipeline() (*pipeline.Pipeline, *mocks.TrackedCaseDatabase) {
	caseDB := &mocks.TrackedCaseDatabase{}
	caseDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.TrackedCase{}, nil)
	eventDB := &mocks.ChangeEventDatabase{}
	return pipeline.New(caseDB, eventDB, nil, nil), caseDB
}

func TestNewScheduler_AssignsInstanceID(t *testing.T) {
	p, _ := emptyBatchPipeline()
	s := NewScheduler(p, &mocks.SchedulerLockDatabase{})
	assert.NotEmpty(t, s.instanceID)
}

func TestRunUpdateJob_RunsWhenLockAcquired(t *testing.T) {
	p, caseDB := emptyBatchPipeline()
	lockDB := &mocks.SchedulerLockDatabase{}
	lockDB.On("TryAcquireLock", mock.Anything, "case_update_job", "test-instance", 10*time.Minute).Return(true, nil)
	lockDB.On("ReleaseLock", mock.Anything, "case_update_job", "test-instance").Return(nil)

	s := NewScheduler(p, lockDB)
	s.instanceID = "test-instance"
	s.runUpdateJob()

	caseDB.AssertCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	lockDB.AssertCalled(t, "ReleaseLock", mock.Anything, "case_update_job", "test-instance")
}

func TestRunUpdateJob_SkipsWhenLockHeldElsewhere(t *testing.T) {
	p, caseDB := emptyBatchPipeline()
	lockDB := &mocks.SchedulerLockDatabase{}
	lockDB.On("TryAcquireLock", mock.Anything, "case_update_job", "test-instance", 10*time.Minute).Return(false, nil)

	s := NewScheduler(p, lockDB)
	s.instanceID = "test-instance"
	s.runUpdateJob()

	caseDB.AssertNotCalled(t, "Find")
	lockDB.AssertNotCalled(t, "ReleaseLock")
}

func TestRunUpdateJob_SkipsOnLockError(t *testing.T) {
	p, caseDB := emptyBatchPipeline()
	lockDB := &mocks.SchedulerLockDatabase{}
	lockDB.On("TryAcquireLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("db down"))

	s := NewScheduler(p, lockDB)
	s.runUpdateJob()

	caseDB.AssertNotCalled(t, "Find")
}
