package types

import "github.com/angelmondragon/storefront-admin/pkg/pagination"

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PageEnvelope is the index response: one page of rows plus paging meta.
type PageEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// MessageEnvelope acknowledges destroy, restore and force delete.
type MessageEnvelope struct {
	Message string `json:"message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
