package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(store *fakeStore) *Validator {
	return NewValidator(
		&fakePatientRepo{store: store},
		&fakeDoctorRepo{store: store},
		&fakeStatusRepo{store: store},
	)
}

func TestValidatorAllPresent(t *testing.T) {
	v := newTestValidator(newFakeStore())

	err := v.Check(context.Background(),
		Ref{Kind: RefPatient, ID: 7},
		Ref{Kind: RefDoctor, ID: 3},
		Ref{Kind: RefStatus, ID: 1},
	)

	assert.NoError(t, err)
}

func TestValidatorStopsAtFirstMissing(t *testing.T) {
	store := newFakeStore()
	store.existingDoctors = map[int64]bool{}
	store.existingStatuses = map[int64]bool{}
	v := newTestValidator(store)

	err := v.Check(context.Background(),
		Ref{Kind: RefPatient, ID: 7},
		Ref{Kind: RefDoctor, ID: 3},
		Ref{Kind: RefStatus, ID: 1},
	)

	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	// the doctor is probed before the status and reported alone
	assert.Equal(t, RefDoctor, pre.Kind)
	assert.Equal(t, int64(3), pre.ID)
	assert.Equal(t, "doctor 3 does not exist", pre.Error())
}

func TestValidatorProbeFailureIsNotMissing(t *testing.T) {
	store := newFakeStore()
	store.existsErr = errors.New("connection refused")
	v := newTestValidator(store)

	err := v.Check(context.Background(), Ref{Kind: RefPatient, ID: 7})

	require.Error(t, err)
	var pre *PreconditionError
	assert.False(t, errors.As(err, &pre))
	assert.ErrorContains(t, err, "failed to validate patient 7")
}

func TestValidatorUnknownKind(t *testing.T) {
	v := newTestValidator(newFakeStore())

	err := v.Check(context.Background(), Ref{Kind: RefKind("specialty"), ID: 1})

	assert.ErrorContains(t, err, "unknown reference kind")
}
