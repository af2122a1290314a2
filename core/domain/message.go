package domain

// InboundMessage is one unread mail message as fetched from the mailbox.
// It is immutable once fetched and consumed exactly once by the pipeline.
type InboundMessage struct {
	ID      string
	From    string // raw From header value, may carry a display name
	Subject string
	Body    string // decoded text/plain part
}
