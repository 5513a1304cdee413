package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnicornXOS/bl1nk-web-portal/database/dbtest"
	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

func input(id string) models.FavoriteInput {
	return models.FavoriteInput{
		ContentID:    id,
		ContentType:  "github",
		ContentTitle: "Item " + id,
		ContentURL:   "https://example.com/" + id,
		Tags:         []string{"go"},
	}
}

func intPtr(n int) *int { return &n }

func setup(t *testing.T) (*Store, uint, uint) {
	t.Helper()
	db := dbtest.Open(t)
	a := dbtest.CreateUser(t, db, "user-a", models.RoleUser)
	b := dbtest.CreateUser(t, db, "user-b", models.RoleUser)
	return NewStore(db), a.ID, b.ID
}

func TestAddThenIsFavorited(t *testing.T) {
	s, a, _ := setup(t)
	ctx := context.Background()

	fav, err := s.Add(ctx, a, input("github-1"))
	require.NoError(t, err)
	assert.NotZero(t, fav.ID)

	ok, err := s.IsFavorited(ctx, a, "github-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Remove(ctx, a, "github-1"))
	ok, err = s.IsFavorited(ctx, a, "github-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddTwice(t *testing.T) {
	s, a, _ := setup(t)
	ctx := context.Background()

	_, err := s.Add(ctx, a, input("github-1"))
	require.NoError(t, err)
	_, err = s.Add(ctx, a, input("github-1"))
	assert.ErrorIs(t, err, ErrAlreadyFavorited)
	assert.Equal(t, "Already added to favorites", err.Error())

	n, err := s.Count(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAddValidates(t *testing.T) {
	s, a, _ := setup(t)
	in := input("x")
	in.ContentURL = "not a url"
	_, err := s.Add(context.Background(), a, in)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, models.FieldErrors(err), "contentUrl")
}

func TestAddRequiresContentType(t *testing.T) {
	s, a, _ := setup(t)
	in := input("x")
	in.ContentType = ""
	_, err := s.Add(context.Background(), a, in)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, models.FieldErrors(err), "contentType")
}

func TestAddDefaultsTags(t *testing.T) {
	s, a, _ := setup(t)
	in := input("x")
	in.ContentType = models.ContentTypeOther
	in.Tags = nil
	fav, err := s.Add(context.Background(), a, in)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeOther, fav.ContentType)

	list, err := s.List(context.Background(), a, models.FavoriteListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{}, []string(list[0].Tags))
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	s, a, _ := setup(t)
	assert.NoError(t, s.Remove(context.Background(), a, "never-added"))
}

func TestToggleTwiceRestoresState(t *testing.T) {
	s, a, _ := setup(t)
	ctx := context.Background()

	on, err := s.Toggle(ctx, a, input("notion-1"))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Toggle(ctx, a, input("notion-1"))
	require.NoError(t, err)
	assert.False(t, on)

	ok, err := s.IsFavorited(ctx, a, "notion-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountIsPerUser(t *testing.T) {
	s, a, b := setup(t)
	ctx := context.Background()
	_, err := s.Add(ctx, a, input("1"))
	require.NoError(t, err)
	_, err = s.Add(ctx, a, input("2"))
	require.NoError(t, err)

	n, err := s.Count(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = s.Count(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	ids, err := s.IDs(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSameContentForTwoUsers(t *testing.T) {
	s, a, b := setup(t)
	ctx := context.Background()
	_, err := s.Add(ctx, a, input("shared"))
	require.NoError(t, err)
	_, err = s.Add(ctx, b, input("shared"))
	assert.NoError(t, err)
}

func TestListQueryBounds(t *testing.T) {
	s, a, _ := setup(t)
	ctx := context.Background()

	_, err := s.List(ctx, a, models.FavoriteListQuery{Limit: intPtr(1000)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.List(ctx, a, models.FavoriteListQuery{Limit: intPtr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.List(ctx, a, models.FavoriteListQuery{Offset: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.List(ctx, a, models.FavoriteListQuery{ContentType: "craft"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	for i := 0; i < 55; i++ {
		_, err := s.Add(ctx, a, input(string(rune('a'+i%26))+string(rune('a'+i/26))))
		require.NoError(t, err)
	}
	list, err := s.List(ctx, a, models.FavoriteListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, DefaultLimit)

	list, err = s.List(ctx, a, models.FavoriteListQuery{Limit: intPtr(10), Offset: 50})
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestListFiltersByContentType(t *testing.T) {
	s, a, _ := setup(t)
	ctx := context.Background()
	notion := input("notion-1")
	notion.ContentType = "notion"
	_, err := s.Add(ctx, a, notion)
	require.NoError(t, err)
	_, err = s.Add(ctx, a, input("github-1"))
	require.NoError(t, err)

	list, err := s.List(ctx, a, models.FavoriteListQuery{ContentType: "notion"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "notion-1", list[0].ContentID)
}

func TestListOrderAndReorder(t *testing.T) {
	s, a, _ := setup(t)
	ctx := context.Background()
	for _, id := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, a, input(id))
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}

	ids, err := s.OrderedIDs(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, ids)

	require.NoError(t, s.Reorder(ctx, a, []string{"second", "first", "third", "unknown"}))
	list, err := s.List(ctx, a, models.FavoriteListQuery{})
	require.NoError(t, err)
	got := []string{}
	for _, f := range list {
		got = append(got, f.ContentID)
	}
	assert.Equal(t, []string{"second", "first", "third"}, got)
}

func TestUpdateDetails(t *testing.T) {
	s, a, b := setup(t)
	ctx := context.Background()
	_, err := s.Add(ctx, a, input("x"))
	require.NoError(t, err)

	desc := "updated"
	require.NoError(t, s.UpdateDetails(ctx, a, "x", models.FavoriteDetailsInput{
		ContentDescription: &desc,
		Tags:               []string{"a", "b"},
	}))
	list, err := s.List(ctx, a, models.FavoriteListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ContentDescription)
	assert.Equal(t, "updated", *list[0].ContentDescription)
	assert.Equal(t, []string{"a", "b"}, []string(list[0].Tags))
	assert.Equal(t, "Item x", list[0].ContentTitle)

	err = s.UpdateDetails(ctx, b, "x", models.FavoriteDetailsInput{ContentDescription: &desc})
	assert.ErrorIs(t, err, ErrFavoriteNotFound)

	bad := "nope"
	err = s.UpdateDetails(ctx, a, "x", models.FavoriteDetailsInput{ContentImage: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeletingUserRemovesFavorites(t *testing.T) {
	s, a, b := setup(t)
	ctx := context.Background()
	for _, id := range []string{"github-1", "notion-2"} {
		_, err := s.Add(ctx, a, input(id))
		require.NoError(t, err)
	}
	_, err := s.Add(ctx, b, input("github-1"))
	require.NoError(t, err)

	require.NoError(t, s.db.Delete(&models.User{}, a).Error)

	n, err := s.Count(ctx, a)
	require.NoError(t, err)
	assert.Zero(t, n)
	var rows int64
	require.NoError(t, s.db.Model(&models.UserFavorite{}).Where("user_id = ?", a).Count(&rows).Error)
	assert.Zero(t, rows)

	n, err = s.Count(ctx, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
