package subscription

import "context"

// ClientSubscription exposes the consumer side of a Subscription,
// without the Send methods reserved for the dispatcher.
type ClientSubscription[T any] struct {
	subscription *Subscription[T]
}

func (c *ClientSubscription[T]) Unsubscribe() {
	c.subscription.Unsubscribe()
}

func (c *ClientSubscription[T]) UnsubscribeWithContext(ctx context.Context) error {
	return c.subscription.UnsubscribeWithContext(ctx)
}

func (c *ClientSubscription[T]) Err() <-chan error {
	return c.subscription.Err()
}

func (c *ClientSubscription[T]) Done() <-chan struct{} {
	return c.subscription.Done()
}
