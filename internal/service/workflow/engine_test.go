package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospitalsys/records/internal/repository"
	"github.com/hospitalsys/records/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: io.Discard})
}

type engineFixture struct {
	store  *fakeStore
	tx     *fakeTx
	sess   *fakeSession
	opener *fakeOpener
	engine *Engine
}

func newEngineFixture() *engineFixture {
	store := newFakeStore()
	tx := &fakeTx{store: store}
	sess := &fakeSession{tx: tx}
	opener := &fakeOpener{sess: sess}
	validator := NewValidator(
		&fakePatientRepo{store: store},
		&fakeDoctorRepo{store: store},
		&fakeStatusRepo{store: store},
	)
	return &engineFixture{
		store:  store,
		tx:     tx,
		sess:   sess,
		opener: opener,
		engine: NewEngine(opener, validator, testLogger()),
	}
}

func stepOK(name string) Step {
	return Step{Name: name, Run: func(context.Context, repository.Tx, *State) error { return nil }}
}

func stepFail(name string, err error) Step {
	return Step{Name: name, Run: func(context.Context, repository.Tx, *State) error { return err }}
}

func twoStepDefinition(steps ...Step) Definition {
	return Definition{
		Name:  "test-workflow",
		Refs:  []Ref{{Kind: RefPatient, ID: 7}},
		Steps: steps,
	}
}

func TestEngineCommit(t *testing.T) {
	f := newEngineFixture()

	out := f.engine.Run(context.Background(), twoStepDefinition(stepOK("one"), stepOK("two")), AutoDecider(DecisionCommit))

	assert.Equal(t, StatusCommitted, out.Status)
	assert.NoError(t, out.Err)
	assert.NoError(t, out.CleanupErr)
	assert.Equal(t, 1, f.tx.commits)
	assert.Equal(t, 0, f.tx.rollbacks)
	assert.Equal(t, 1, f.sess.closed)
}

func TestEngineRolledBackByChoice(t *testing.T) {
	f := newEngineFixture()

	out := f.engine.Run(context.Background(), twoStepDefinition(stepOK("one")), AutoDecider(DecisionRollback))

	assert.Equal(t, StatusRolledBackByChoice, out.Status)
	assert.NoError(t, out.Err)
	assert.Equal(t, 0, f.tx.commits)
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Equal(t, 1, f.sess.closed)
}

func TestEngineStepFailureRollsBack(t *testing.T) {
	f := newEngineFixture()
	cause := errors.New("constraint violation")

	out := f.engine.Run(context.Background(),
		twoStepDefinition(stepOK("one"), stepFail("two", cause), stepOK("three")),
		AutoDecider(DecisionCommit))

	assert.Equal(t, StatusRolledBackOnError, out.Status)
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Equal(t, 0, f.tx.commits)

	var stepErr *StepExecutionError
	require.ErrorAs(t, out.Err, &stepErr)
	assert.Equal(t, 2, stepErr.Index)
	assert.Equal(t, "two", stepErr.Name)
	assert.ErrorIs(t, out.Err, cause)
	assert.Equal(t, 1, f.sess.closed)
}

func TestEngineRollbackFailureIsDistinct(t *testing.T) {
	f := newEngineFixture()
	f.tx.rollbackErr = errors.New("connection lost")

	out := f.engine.Run(context.Background(),
		twoStepDefinition(stepFail("one", errors.New("boom"))),
		AutoDecider(DecisionCommit))

	assert.Equal(t, StatusRollbackFailed, out.Status)
	var rbErr *RollbackError
	require.ErrorAs(t, out.Err, &rbErr)
	assert.ErrorContains(t, out.Err, "rollback failed")
	assert.ErrorContains(t, out.Err, "boom")
	// rollback is attempted exactly once
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Equal(t, 1, f.sess.closed)
}

func TestEngineCommitFailureRollsBack(t *testing.T) {
	f := newEngineFixture()
	f.tx.commitErr = errors.New("serialization failure")

	out := f.engine.Run(context.Background(), twoStepDefinition(stepOK("one")), AutoDecider(DecisionCommit))

	assert.Equal(t, StatusRolledBackOnError, out.Status)
	assert.ErrorContains(t, out.Err, "failed to commit workflow")
	assert.Equal(t, 1, f.tx.commits)
	assert.Equal(t, 1, f.tx.rollbacks)
}

func TestEngineDeciderErrorRollsBack(t *testing.T) {
	f := newEngineFixture()
	decide := DeciderFunc(func(context.Context, RunInfo) (Decision, error) {
		return DecisionCommit, fmt.Errorf("stdin closed")
	})

	out := f.engine.Run(context.Background(), twoStepDefinition(stepOK("one")), decide)

	assert.Equal(t, StatusRolledBackOnError, out.Status)
	assert.ErrorContains(t, out.Err, "decision unavailable")
	assert.Equal(t, 0, f.tx.commits)
	assert.Equal(t, 1, f.tx.rollbacks)
}

func TestEnginePreconditionAbortsBeforeTransaction(t *testing.T) {
	f := newEngineFixture()
	def := Definition{
		Name:  "test-workflow",
		Refs:  []Ref{{Kind: RefPatient, ID: 99}},
		Steps: []Step{stepOK("one")},
	}

	out := f.engine.Run(context.Background(), def, AutoDecider(DecisionCommit))

	assert.Equal(t, StatusAborted, out.Status)
	var pre *PreconditionError
	require.ErrorAs(t, out.Err, &pre)
	assert.Equal(t, RefPatient, pre.Kind)
	assert.Equal(t, int64(99), pre.ID)
	// no session, no transaction, no writes
	assert.Equal(t, 0, f.sess.closed)
	assert.Empty(t, f.store.ops)
}

func TestEngineBeginFailure(t *testing.T) {
	f := newEngineFixture()
	f.sess.beginErr = errors.New("too many connections")

	out := f.engine.Run(context.Background(), twoStepDefinition(stepOK("one")), AutoDecider(DecisionCommit))

	assert.Equal(t, StatusAborted, out.Status)
	assert.ErrorContains(t, out.Err, "failed to begin workflow transaction")
	// the session is still released
	assert.Equal(t, 1, f.sess.closed)
}

func TestEngineCleanupFailureDoesNotChangeStatus(t *testing.T) {
	f := newEngineFixture()
	f.sess.closeErr = errors.New("connection already closed")

	out := f.engine.Run(context.Background(), twoStepDefinition(stepOK("one")), AutoDecider(DecisionCommit))

	assert.Equal(t, StatusCommitted, out.Status)
	assert.NoError(t, out.Err)
	assert.ErrorContains(t, out.CleanupErr, "connection already closed")
}

func TestEngineDecisionSeesGeneratedState(t *testing.T) {
	f := newEngineFixture()
	var seen RunInfo
	decide := DeciderFunc(func(_ context.Context, run RunInfo) (Decision, error) {
		seen = run
		return DecisionRollback, nil
	})
	def := twoStepDefinition(Step{
		Name: "create",
		Run: func(_ context.Context, _ repository.Tx, state *State) error {
			state.AppointmentID = 42
			return nil
		},
	})

	out := f.engine.Run(context.Background(), def, decide)

	assert.Equal(t, StatusRolledBackByChoice, out.Status)
	assert.Equal(t, int64(42), seen.State.AppointmentID)
	assert.Equal(t, out.RunID, seen.RunID)
}
