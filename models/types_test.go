// ABOUTME: Tests for data model helpers
// ABOUTME: Covers money parsing, timestamps, callback transitions, validation and role checks
package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
		ok   bool
	}{
		{"100", 10000, true},
		{"1250.5", 125050, true},
		{"$1,250.50", 125050, true},
		{" 99 ", 9900, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseMoney(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseMoney(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(Money(12345))
	require.NoError(t, err)
	assert.Equal(t, "123.45", string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"2,000"`), &m))
	assert.Equal(t, Money(200000), m)

	require.NoError(t, json.Unmarshal([]byte(`19.99`), &m))
	assert.Equal(t, Money(1999), m)

	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &m))
}

func TestTimestampInvalidDate(t *testing.T) {
	var ts Timestamp
	assert.Equal(t, InvalidDate, ts.String())
	assert.Equal(t, InvalidDate, ts.Day(time.UTC))
	assert.Equal(t, InvalidDate, ts.SortValue())

	require.NoError(t, json.Unmarshal([]byte(`"not a date"`), &ts))
	assert.False(t, ts.Valid)

	valid := At(time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-09", valid.Day(time.UTC))
	assert.Equal(t, valid.Time.UnixMilli(), valid.SortValue())

	data, err := json.Marshal(valid)
	require.NoError(t, err)

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Valid)
	assert.True(t, valid.Time.Equal(decoded.Time))
}

func TestCallbackTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{CallbackPending, CallbackContacted, true},
		{CallbackPending, CallbackCancelled, true},
		{CallbackPending, CallbackCompleted, false},
		{CallbackContacted, CallbackCompleted, true},
		{CallbackContacted, CallbackCancelled, true},
		{CallbackContacted, CallbackPending, false},
		{CallbackCompleted, CallbackCancelled, false},
		{CallbackCancelled, CallbackPending, false},
	}

	for _, tt := range tests {
		cb := &Callback{CallbackID: "cb-1", Status: tt.from}
		err := cb.TransitionStatus(tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
			assert.Equal(t, tt.to, cb.Status)
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
			assert.Equal(t, tt.from, cb.Status)
		}
	}
}

func TestCallbackTransitionSameStatusIsNoop(t *testing.T) {
	cb := &Callback{Status: CallbackContacted}
	require.NoError(t, cb.TransitionStatus(CallbackContacted))
	assert.Equal(t, CallbackContacted, cb.Status)

	err := cb.TransitionStatus("archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNextCallbackStatuses(t *testing.T) {
	assert.Equal(t, []string{CallbackCancelled, CallbackContacted}, NextCallbackStatuses(CallbackPending))
	assert.Empty(t, NextCallbackStatuses(CallbackCompleted))
}

func TestDealValidate(t *testing.T) {
	deal := Deal{CustomerName: "Acme", SalesAgentID: "a1", Amount: 500}
	require.NoError(t, deal.Validate())

	deal.CustomerName = " "
	assert.ErrorIs(t, deal.Validate(), ErrValidation)

	deal = Deal{CustomerName: "Acme", SalesAgentID: "a1", Amount: -1}
	assert.ErrorIs(t, deal.Validate(), ErrValidation)

	deal = Deal{CustomerName: "Acme", SalesAgentID: "a1", Status: "won"}
	assert.ErrorIs(t, deal.Validate(), ErrValidation)
}

func TestDataCenterEntryValidateAddressee(t *testing.T) {
	entry := DataCenterEntry{Title: "Q3 targets", DataType: DataAnnouncement, Priority: PriorityHigh, SentToTeam: "Alpha"}
	require.NoError(t, entry.Validate())

	entry.SentToID = "u1"
	assert.ErrorIs(t, entry.Validate(), ErrValidation)

	entry.SentToTeam = ""
	entry.SentToID = ""
	assert.ErrorIs(t, entry.Validate(), ErrValidation)
}

func TestFeedbackValidateRating(t *testing.T) {
	fb := Feedback{DataID: "d1", UserID: "u1", FeedbackText: "ok", FeedbackType: FeedbackGeneral}
	require.NoError(t, fb.Validate())

	fb.Rating = 6
	assert.ErrorIs(t, fb.Validate(), ErrValidation)

	fb.Rating = 5
	fb.FeedbackType = "rant"
	assert.ErrorIs(t, fb.Validate(), ErrValidation)
}

func TestPermissions(t *testing.T) {
	manager := Identity{ID: "m1", Role: RoleManager}
	leader := Identity{ID: "t1", Role: RoleTeamLeader, ManagedTeam: "Alpha"}
	salesman := Identity{ID: "s1", Role: RoleSalesman, Team: "Alpha"}

	deal := Deal{DealID: "d1", SalesAgentID: "s2", ClosingAgentID: "s1", Team: "Alpha"}
	assert.NoError(t, CanEditDeal(manager, deal))
	assert.NoError(t, CanEditDeal(leader, deal))
	assert.NoError(t, CanEditDeal(salesman, deal))
	assert.ErrorIs(t, CanEditDeal(Identity{ID: "s9", Role: RoleSalesman}, deal), ErrForbidden)

	assert.NoError(t, CanDeleteDeal(manager))
	assert.True(t, errors.Is(CanDeleteDeal(leader), ErrForbidden))

	assert.NoError(t, CanPostDataCenterEntry(leader, DataCenterEntry{SentToTeam: "Alpha"}))
	assert.ErrorIs(t, CanPostDataCenterEntry(leader, DataCenterEntry{SentToTeam: "Beta"}), ErrForbidden)
	assert.ErrorIs(t, CanPostDataCenterEntry(salesman, DataCenterEntry{SentToTeam: "Alpha"}), ErrForbidden)
	assert.ErrorIs(t, CanDeleteDataCenterEntry(leader), ErrForbidden)
	assert.ErrorIs(t, CanSetFeedbackStatus(salesman), ErrForbidden)
}

func TestNewIDIsULID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	_, err := ulid.Parse(a)
	assert.NoError(t, err)
}

func TestDealSortValue(t *testing.T) {
	deal := Deal{Amount: 1050, CustomerName: "Zed"}
	assert.Equal(t, 10.5, deal.SortValue("amount"))
	assert.Equal(t, "Zed", deal.SortValue("customerName"))
	assert.Equal(t, InvalidDate, deal.SortValue("createdAt"))
	assert.Equal(t, "", deal.SortValue("nope"))
}
