package ports

import "context"

// VerificationNotice asks the notification pipeline to prompt a freshly
// registered user to verify their account.
type VerificationNotice struct {
	UserID   int64
	Email    string
	FullName string
}

// NotificationService processes a single verification notice.
type NotificationService interface {
	Process(ctx context.Context, notice VerificationNotice) error
}

// VerificationDispatcher hands notices to background workers. Enqueue must
// not block the registration request path beyond buffer capacity.
type VerificationDispatcher interface {
	Enqueue(notice VerificationNotice)
}
