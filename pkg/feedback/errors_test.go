package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

func TestStoreError(t *testing.T) {
	assert.NoError(t, storeError("op", nil))
	assert.ErrorIs(t, storeError("op", store.ErrNotFound), ErrNotFound)
	assert.ErrorIs(t, storeError("op", store.ErrDuplicate), ErrConflict)
	assert.ErrorIs(t, storeError("op", context.Canceled), context.Canceled)

	boom := errors.New("connection refused")
	err := storeError("fetch project", boom)
	var terr *TransientError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, "fetch project", terr.Op)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "fetch project: connection refused", err.Error())
}

func TestParseID(t *testing.T) {
	_, err := ParseID("formId", "")
	assertValidation(t, err, "formId", "InvalidFormat")

	id, err := ParseID("formId", "6F9619FF-8B86-D011-B42D-00CF4FC964FF")
	assert.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00cf4fc964ff", id.String())
}

func TestParseIDRejectsNonCanonicalForms(t *testing.T) {
	for _, raw := range []string{
		"urn:uuid:6f9619ff-8b86-d011-b42d-00cf4fc964ff",
		"{6f9619ff-8b86-d011-b42d-00cf4fc964ff}",
		"6f9619ff8b86d011b42d00cf4fc964ff",
		" 6f9619ff-8b86-d011-b42d-00cf4fc964ff",
	} {
		_, err := ParseID("id", raw)
		assertValidation(t, err, "id", "InvalidFormat")
	}
}
