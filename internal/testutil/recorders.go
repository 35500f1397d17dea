package testutil

import (
	"sync"

	"github.com/finview/finview/internal/eventbus"
)

// NotificationRecorder captures notifications published on the bus so tests
// can assert on the toast analogues an operation emitted.
type NotificationRecorder struct {
	mu            sync.Mutex
	notifications []eventbus.Notification
}

func RecordNotifications(bus *eventbus.Bus) *NotificationRecorder {
	r := &NotificationRecorder{}
	eventbus.SubscribeTyped(bus, eventbus.NotificationEvent, func(e eventbus.EventT[eventbus.Notification]) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.notifications = append(r.notifications, e.Data)
		return nil
	})
	return r
}

func (r *NotificationRecorder) All() []eventbus.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]eventbus.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func (r *NotificationRecorder) Last() (eventbus.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return eventbus.Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// ExpiryRecorder captures session-expired events.
type ExpiryRecorder struct {
	mu      sync.Mutex
	expired []eventbus.SessionExpired
}

func RecordExpiries(bus *eventbus.Bus) *ExpiryRecorder {
	r := &ExpiryRecorder{}
	eventbus.SubscribeTyped(bus, eventbus.SessionExpiredEvent, func(e eventbus.EventT[eventbus.SessionExpired]) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.expired = append(r.expired, e.Data)
		return nil
	})
	return r
}

func (r *ExpiryRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expired)
}

func (r *ExpiryRecorder) All() []eventbus.SessionExpired {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]eventbus.SessionExpired, len(r.expired))
	copy(out, r.expired)
	return out
}
