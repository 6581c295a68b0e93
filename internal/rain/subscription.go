package rain

// Subscription is an external event source (resize, keyboard) handed to the
// engine; Destroy releases it.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Unsubscribe() { f() }
