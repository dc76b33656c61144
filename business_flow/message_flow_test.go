package businessflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/amirphl/otp-messenger/app/dto"
	"github.com/amirphl/otp-messenger/models"
	testingutil "github.com/amirphl/otp-messenger/testing"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedMessages(t *testing.T, store *testingutil.TestStore) {
	t.Helper()
	ctx := context.Background()
	for _, m := range []models.Message{
		{ID: 1000, ContactID: 1, ContactName: "Ava Li", PhoneNumber: "+15551234567", Message: "Hi. Your OTP is: 111111", OTP: "111111", Timestamp: "2026-10-15T09:00:00.000Z"},
		{ID: 2000, ContactID: 2, ContactName: "Ben Okafor", PhoneNumber: "+15552223333", Message: "Hi. Your OTP is: 222222", OTP: "222222", Timestamp: "2026-10-15T09:01:00.000Z"},
		{ID: 3000, ContactID: 1, ContactName: "Ava Li", PhoneNumber: "+15551234567", Message: "Hi. Your OTP is: 333333", OTP: "333333", Timestamp: "2026-10-15T09:02:00.000Z"},
	} {
		m := m
		require.NoError(t, store.Messages.Append(ctx, &m))
	}
}

func TestMessageFlow_ListMessages(t *testing.T) {
	ctx := context.Background()
	store, err := testingutil.SetupTestStore(ctx)
	require.NoError(t, err)
	defer store.Close()
	seedMessages(t, store)

	flow := NewMessageFlow(store.Messages)

	tests := []struct {
		name          string
		req           *dto.ListMessagesRequest
		expectIDs     []int64
		expectMatched int
	}{
		{name: "all newest first", req: &dto.ListMessagesRequest{}, expectIDs: []int64{3000, 2000, 1000}, expectMatched: 3},
		{name: "by name", req: &dto.ListMessagesRequest{Search: "  ava "}, expectIDs: []int64{3000, 1000}, expectMatched: 2},
		{name: "by otp", req: &dto.ListMessagesRequest{Search: "2222"}, expectIDs: []int64{2000}, expectMatched: 1},
		{name: "by contact", req: &dto.ListMessagesRequest{ContactID: utils.ToPtr(int64(2))}, expectIDs: []int64{2000}, expectMatched: 1},
		{name: "no match", req: &dto.ListMessagesRequest{Search: "zzz"}, expectIDs: []int64{}, expectMatched: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := flow.ListMessages(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, int64(3), resp.Total)
			assert.Equal(t, tt.expectMatched, resp.Matched)

			ids := make([]int64, 0, len(resp.Messages))
			for _, m := range resp.Messages {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.expectIDs, ids)
		})
	}
}

func TestMessageFlow_EmptyHistory(t *testing.T) {
	ctx := context.Background()
	store, err := testingutil.SetupTestStore(ctx)
	require.NoError(t, err)
	defer store.Close()

	resp, err := NewMessageFlow(store.Messages).ListMessages(ctx, &dto.ListMessagesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)
	assert.NotNil(t, resp.Messages)
	assert.Empty(t, resp.Messages)
}

func TestMessageFlow_ExportMessages(t *testing.T) {
	ctx := context.Background()
	store, err := testingutil.SetupTestStore(ctx)
	require.NoError(t, err)
	defer store.Close()
	seedMessages(t, store)

	filename, data, err := NewMessageFlow(store.Messages).ExportMessages(ctx, &dto.ListMessagesRequest{Search: "ava"})
	require.NoError(t, err)
	assert.Equal(t, "messages.xlsx", filename)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows("Messages")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "contact_id", "contact_name", "phone_number", "otp", "message", "timestamp"}, rows[0])
	assert.Equal(t, "3000", rows[1][0])
	assert.Equal(t, "Ava Li", rows[1][2])
	assert.Equal(t, "333333", rows[1][4])
	assert.Equal(t, "1000", rows[2][0])
}

func TestContactFlow(t *testing.T) {
	ctx := context.Background()
	store, err := testingutil.SetupTestStore(ctx)
	require.NoError(t, err)
	defer store.Close()

	flow := NewContactFlow(store.Contacts)

	list, err := flow.ListContacts(ctx, &dto.ListContactsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Contacts, 3)

	list, err = flow.ListContacts(ctx, &dto.ListContactsRequest{Search: "MART"})
	require.NoError(t, err)
	require.Len(t, list.Contacts, 1)
	assert.Equal(t, "Chloe Martin", list.Contacts[0].FullName)
	assert.Equal(t, "CM", list.Contacts[0].Initials)

	contact, err := flow.GetContact(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", contact.PhoneNumber)

	_, err = flow.GetContact(ctx, 42)
	assert.True(t, IsContactNotFound(err))
}
