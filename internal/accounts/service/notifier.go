package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// NotificationKind selects which email template the dispatcher renders.
type NotificationKind string

const (
	NotificationVerification  NotificationKind = "verification"
	NotificationAdminApproval NotificationKind = "admin_approval"
	NotificationPasswordReset NotificationKind = "password_reset"
)

// ErrNotificationFailed marks a dispatch failure after the account mutation
// already committed. Callers treat it as a partial failure, never a rollback.
var ErrNotificationFailed = errors.New("notification dispatch failed")

// NotificationData carries the template inputs for one email. Email is the
// subject account's address, shown in the admin approval notice.
type NotificationData struct {
	DisplayName string
	Email       string
	Link        string
}

// Notifier dispatches account lifecycle emails. Implementations must apply
// their own send timeout; the caller's mutation has already committed.
type Notifier interface {
	Send(ctx context.Context, to string, kind NotificationKind, data NotificationData) error
}

// verificationLink builds the clickthrough URL carried in verification and
// approval emails.
func (s *AccountService) verificationLink(token string, variant string) string {
	return fmt.Sprintf("%s/verify-email?token=%s&type=%s",
		s.BaseURL, url.QueryEscape(token), url.QueryEscape(variant))
}

func (s *AccountService) resetLink(token string, variant string) string {
	return fmt.Sprintf("%s/reset-password?token=%s&type=%s",
		s.BaseURL, url.QueryEscape(token), url.QueryEscape(variant))
}
