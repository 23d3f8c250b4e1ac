package service

import (
	"LittleStories/internal/repository"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupError(t *testing.T) {
	known, code, ok := LookupError(ErrClaimInvalid)
	assert.True(t, ok)
	assert.Equal(t, Conflict, code)
	assert.Equal(t, ErrClaimInvalid, known)

	known, code, ok = LookupError(fmt.Errorf("wrapped: %w", ErrStoryNotFound))
	assert.True(t, ok)
	assert.Equal(t, NotFound, code)
	assert.Equal(t, ErrStoryNotFound, known)

	known, code, ok = LookupError(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, InternalServerError, code)
	assert.Equal(t, UnExpectedError, known)
}

func TestPrincipal(t *testing.T) {
	var p *Principal
	assert.False(t, p.Authenticated())
	assert.Empty(t, p.ID())
	assert.False(t, (&Principal{}).Authenticated())
	assert.True(t, (&Principal{UserID: "u"}).Authenticated())
}

func TestMapRepoError(t *testing.T) {
	assert.NoError(t, mapRepoError(nil))
	assert.ErrorIs(t, mapRepoError(fmt.Errorf("update: %w", repository.ErrPermissionDenied)), ErrPermissionDenied)
	assert.ErrorIs(t, mapRepoError(repository.ErrClaimInvalid), ErrClaimInvalid)
	assert.ErrorIs(t, mapRepoError(assert.AnError), assert.AnError)

	_, code, ok := LookupError(mapRepoError(repository.ErrPermissionDenied))
	assert.True(t, ok)
	assert.Equal(t, Forbidden, code)
}
