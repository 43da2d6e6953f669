package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxUserID    ContextKey = "ctx_user_id"
	CtxUserEmail ContextKey = "ctx_user_email"
	CtxClientIP  ContextKey = "ctx_client_ip"
	CtxIsOwner   ContextKey = "ctx_is_owner"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(CtxUserEmail).(string); ok {
		return email
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(CtxClientIP).(string); ok {
		return ip
	}
	return ""
}

// IsOwner reports whether the request was authenticated as the store owner
func IsOwner(ctx context.Context) bool {
	if owner, ok := ctx.Value(CtxIsOwner).(bool); ok {
		return owner
	}
	return false
}

// SetUserEmail sets the user email in the context
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, CtxUserEmail, email)
}

// SetClientIP sets the client ip in the context
func SetClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, CtxClientIP, ip)
}
