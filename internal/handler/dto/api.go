// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/bridgekit/bridgekit/internal/model"

// UserReportListResponse wraps the enriched user report list.
type UserReportListResponse struct {
	Data []model.UserReport `json:"data"`
}

// SendNotificationRequest is the request body for sending a notification.
type SendNotificationRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// SendNotificationResponse acknowledges a dispatched notification.
type SendNotificationResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
