package server

// Notifier is the seam where the asynchronous notification pipeline
// attaches. It is invoked after a message has been broadcast; the
// pipeline itself lives outside this service.
type Notifier interface {
	ChatDelivered(courseId int, msg *ServerMessage)
}

type NopNotifier struct{}

func (NopNotifier) ChatDelivered(courseId int, msg *ServerMessage) {}
