package services

// Notifier is told when local state changed so it can be mirrored remotely.
// Notify must not block on remote I/O.
type Notifier interface {
	Notify(reason string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
