package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amirphl/otp-messenger/models"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepository_Seed(t *testing.T) {
	ctx := context.Background()
	repo, err := NewContactRepositoryFromFile("")
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	c, err := repo.ByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ava Li", c.FullName())
	assert.Equal(t, "+15551234567", c.PhoneNumber)

	missing, err := repo.ByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContactRepository_Validation(t *testing.T) {
	tests := []struct {
		name     string
		contacts []models.Contact
	}{
		{
			name:     "bad phone",
			contacts: []models.Contact{{ID: 1, FirstName: "A", LastName: "B", PhoneNumber: "555-1234"}},
		},
		{
			name:     "missing name",
			contacts: []models.Contact{{ID: 1, FirstName: "", LastName: "B", PhoneNumber: "+15550000000"}},
		},
		{
			name: "duplicate id",
			contacts: []models.Contact{
				{ID: 1, FirstName: "A", LastName: "B", PhoneNumber: "+15550000000"},
				{ID: 1, FirstName: "C", LastName: "D", PhoneNumber: "+15550000001"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContactRepository(tt.contacts)
			assert.Error(t, err)
		})
	}
}

func TestContactRepository_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":7,"firstName":"Zed","lastName":"Ray","phoneNumber":"+447700900123"}]`), 0o600))

	repo, err := NewContactRepositoryFromFile(path)
	require.NoError(t, err)

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ZR", all[0].Initials())

	_, err = NewContactRepositoryFromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestContactRepository_ByFilter(t *testing.T) {
	ctx := context.Background()
	repo, err := NewContactRepository([]models.Contact{
		{ID: 2, FirstName: "Ben", LastName: "Okafor", PhoneNumber: "+15550000002"},
		{ID: 1, FirstName: "Ava", LastName: "Li", PhoneNumber: "+15550000001"},
	})
	require.NoError(t, err)

	got, err := repo.ByFilter(ctx, models.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)

	got, err = repo.ByFilter(ctx, models.ContactFilter{Search: utils.ToPtr("oKAF")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got, err = repo.ByFilter(ctx, models.ContactFilter{ID: utils.ToPtr(int64(1)), Search: utils.ToPtr("ben")})
	require.NoError(t, err)
	assert.Empty(t, got)
}
