package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	errRemote = errors.New("remote unavailable")
	fixedNow  = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
)

func eventsOf(ev *MockEventsProducer) port.EventsProducer {
	if ev == nil {
		return nil
	}
	return ev
}

func newTestOrders(gw *MockOrdersGateway, ev *MockEventsProducer) Orders {
	s := NewOrders(gw, eventsOf(ev))
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestOrdersListOrders(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		orders := []domain.Order{{ID: "o1"}, {ID: "o2"}}
		gw.On("ListOrders", mock.Anything).Return(orders, nil)

		got, err := newTestOrders(gw, nil).ListOrders(t.Context())
		require.NoError(t, err)
		assert.Equal(t, orders, got)
	})

	t.Run("FetchError", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		gw.On("ListOrders", mock.Anything).Return(nil, errRemote)

		got, err := newTestOrders(gw, nil).ListOrders(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFetch)
		assert.ErrorIs(t, err, errRemote)
		assert.Nil(t, got)
	})
}

func TestOrdersGetOrder(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		gw.On("GetOrder", mock.Anything, "o9").
			Return(domain.Order{}, domain.ErrNotFound)

		_, err := newTestOrders(gw, nil).GetOrder(t.Context(), "o9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NotErrorIs(t, err, domain.ErrFetch)
	})

	t.Run("FetchError", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		gw.On("GetOrder", mock.Anything, "o1").Return(domain.Order{}, errRemote)

		_, err := newTestOrders(gw, nil).GetOrder(t.Context(), "o1")
		assert.ErrorIs(t, err, domain.ErrFetch)
	})
}

func TestOrdersSetOrderStatus(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		ev := new(MockEventsProducer)
		want := domain.OrderStatusChanged{
			OrderID: "o1", Status: domain.StatusDispatch, At: fixedNow,
		}
		gw.On("PatchOrderStatus", mock.Anything, "o1", domain.StatusDispatch).
			Return(nil)
		ev.On("ProduceEvent", mock.Anything, want).Return(nil)

		s := newTestOrders(gw, ev)
		evt, err := s.SetOrderStatus(t.Context(), "o1", domain.StatusDispatch)
		require.NoError(t, err)
		assert.Equal(t, want, evt)
		s.Wait()
		gw.AssertExpectations(t)
		ev.AssertExpectations(t)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		gw := new(MockOrdersGateway)

		for _, s := range []domain.OrderStatus{"", "cancelled", "Pending"} {
			_, err := newTestOrders(gw, nil).SetOrderStatus(t.Context(), "o1", s)
			assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		}
		gw.AssertNotCalled(t, "PatchOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RemoteFailure", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		ev := new(MockEventsProducer)
		gw.On("PatchOrderStatus", mock.Anything, "o1", domain.StatusSuccess).
			Return(errRemote)

		evt, err := newTestOrders(gw, ev).SetOrderStatus(
			t.Context(), "o1", domain.StatusSuccess,
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpdate)
		assert.Zero(t, evt)
		ev.AssertNotCalled(t, "ProduceEvent", mock.Anything, mock.Anything)
	})

	t.Run("PublishFailureIgnored", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		ev := new(MockEventsProducer)
		gw.On("PatchOrderStatus", mock.Anything, "o1", domain.StatusPending).
			Return(nil)
		ev.On("ProduceEvent", mock.Anything, mock.Anything).Return(errRemote)

		s := newTestOrders(gw, ev)
		evt, err := s.SetOrderStatus(t.Context(), "o1", domain.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, evt.Status)
		s.Wait()
		ev.AssertExpectations(t)
	})

	t.Run("PublishDoesNotBlock", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		gw.On("PatchOrderStatus", mock.Anything, "o1", domain.StatusSuccess).
			Return(nil)
		ev := newStalledEvents()

		s := NewOrders(gw, ev)
		ctx, cancel := context.WithCancel(t.Context())

		done := make(chan error, 1)
		go func() {
			_, err := s.SetOrderStatus(ctx, "o1", domain.StatusSuccess)
			done <- err
		}()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("mutation waits for the events producer")
		}

		cancel()
		close(ev.release)
		s.Wait()
		assert.NoError(t, ev.ctxErr, "publish context follows the request")
	})
}

func TestOrdersDeleteOrder(t *testing.T) {
	t.Run("NotConfirmed", func(t *testing.T) {
		gw := new(MockOrdersGateway)

		_, err := newTestOrders(gw, nil).DeleteOrder(t.Context(), "o1", false)
		assert.ErrorIs(t, err, domain.ErrNotConfirmed)
		gw.AssertNotCalled(t, "DeleteOrder", mock.Anything, mock.Anything)
	})

	t.Run("Confirmed", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		gw.On("DeleteOrder", mock.Anything, "o1").Return(nil)

		evt, err := newTestOrders(gw, nil).DeleteOrder(t.Context(), "o1", true)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderDeleted{OrderID: "o1", At: fixedNow}, evt)
		gw.AssertExpectations(t)
	})

	t.Run("RemoteFailure", func(t *testing.T) {
		gw := new(MockOrdersGateway)
		gw.On("DeleteOrder", mock.Anything, "o1").Return(errRemote)

		_, err := newTestOrders(gw, nil).DeleteOrder(t.Context(), "o1", true)
		assert.ErrorIs(t, err, domain.ErrDelete)
	})
}
