// Package mocks provides test doubles for the betsapi client.
package mocks

import (
	"context"

	betsapi "github.com/sells-group/overunder/pkg/betsapi"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// EventView provides a mock function with given fields: ctx, eventID
func (_m *MockClient) EventView(ctx context.Context, eventID string) (*betsapi.Event, error) {
	ret := _m.Called(ctx, eventID)

	if len(ret) == 0 {
		panic("no return value specified for EventView")
	}

	var r0 *betsapi.Event
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*betsapi.Event, error)); ok {
		return rf(ctx, eventID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *betsapi.Event); ok {
		r0 = rf(ctx, eventID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*betsapi.Event)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, eventID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// EndedEvents provides a mock function with given fields: ctx, teamID, page
func (_m *MockClient) EndedEvents(ctx context.Context, teamID string, page int) (*betsapi.EndedResponse, error) {
	ret := _m.Called(ctx, teamID, page)

	if len(ret) == 0 {
		panic("no return value specified for EndedEvents")
	}

	var r0 *betsapi.EndedResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) (*betsapi.EndedResponse, error)); ok {
		return rf(ctx, teamID, page)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) *betsapi.EndedResponse); ok {
		r0 = rf(ctx, teamID, page)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*betsapi.EndedResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, teamID, page)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// EventOdds provides a mock function with given fields: ctx, eventID
func (_m *MockClient) EventOdds(ctx context.Context, eventID string) (*betsapi.OddsResponse, error) {
	ret := _m.Called(ctx, eventID)

	if len(ret) == 0 {
		panic("no return value specified for EventOdds")
	}

	var r0 *betsapi.OddsResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*betsapi.OddsResponse, error)); ok {
		return rf(ctx, eventID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *betsapi.OddsResponse); ok {
		r0 = rf(ctx, eventID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*betsapi.OddsResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, eventID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
