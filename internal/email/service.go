package email

import (
	"context"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
	SendVerificationApproved(ctx context.Context, to string, businessName string) error
	SendVerificationRejected(ctx context.Context, to string, businessName string, reason string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}
