package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

func bindQuery(t *testing.T, query string) (ports.ContactFilters, error) {
	t.Helper()
	c, _ := newContext(http.MethodGet, "/v1/contacts?"+query, "")
	return bindContactFilters(c)
}

func TestBindContactFilters_Defaults(t *testing.T) {
	f, err := bindQuery(t, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPage, f.Page)
	assert.Equal(t, domain.DefaultLimit, f.Limit)
	assert.Empty(t, f.Search)
	assert.Empty(t, f.Tags)
	assert.Nil(t, f.IsActive)
	assert.Empty(t, f.SortBy)
	assert.Empty(t, f.SortOrder)
}

func TestBindContactFilters_AllFields(t *testing.T) {
	f, err := bindQuery(t, "page=3&limit=20&search=%20bob%20&tags=work&tags=gym&isActive=TRUE&sortBy=name&sortOrder=DESC")
	require.NoError(t, err)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, "bob", f.Search)
	assert.Equal(t, []string{"work", "gym"}, f.Tags)
	require.NotNil(t, f.IsActive)
	assert.True(t, *f.IsActive)
	assert.Equal(t, domain.SortByName, f.SortBy)
	assert.Equal(t, domain.SortDesc, f.SortOrder)
}

func TestBindContactFilters_BracketTagsAndNumericBool(t *testing.T) {
	f, err := bindQuery(t, "tags%5B%5D=a&tags%5B%5D=b&isActive=0")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Tags)
	require.NotNil(t, f.IsActive)
	assert.False(t, *f.IsActive)
}

func TestBindContactFilters_TagsAreNotSplit(t *testing.T) {
	f, err := bindQuery(t, "tags=work%2Chome&tags=%20gym")
	require.NoError(t, err)
	assert.Equal(t, []string{"work,home", " gym"}, f.Tags)
}

func TestBindContactFilters_HugePageIsAccepted(t *testing.T) {
	f, err := bindQuery(t, "page=1000000000000000000&limit=10")
	require.NoError(t, err)
	assert.Equal(t, 1_000_000_000_000_000_000, f.Page)
}

func TestBindContactFilters_CollectsEveryProblem(t *testing.T) {
	_, err := bindQuery(t, "page=0&limit=ten&isActive=maybe&sortBy=email&sortOrder=up")

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ElementsMatch(t, []string{
		"page must be at least 1",
		"limit must be an integer",
		"isActive must be a boolean",
		"sortBy must be one of: name createdAt updatedAt",
		"sortOrder must be one of: asc desc",
	}, ve.Problems)
}
