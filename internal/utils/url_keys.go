package utils

const (
	// PostIdKey is the key for post ID used in routing parameters.
	PostIdKey = "id"

	// PageParamKey is the key for the 1-indexed page used in pagination query parameters.
	PageParamKey = "page"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"

	// TokenParamKey is the key for the email verification token used in query parameters.
	TokenParamKey = "token"
)
