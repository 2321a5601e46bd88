package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// PostsChannel is the single logical broadcast channel for post changes.
const PostsChannel = "posts"

// DefaultUserStatus is assigned to every new user.
const DefaultUserStatus = "I am new!"

// MinTextLength is the minimum trimmed length of post titles, post contents
// and passwords.
const MinTextLength = 5
