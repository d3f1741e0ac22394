package common

// AuthorizationHeaderName is the HTTP header carrying the bearer session
// credential on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the authorization header.
const BearerPrefix = "Bearer "
