package common

// AuthHeaderName is the HTTP header used to carry the bearer access token
// issued by the external identity provider.
const AuthHeaderName = "Authorization"

// AuthScheme is the expected prefix of the AuthHeaderName value.
const AuthScheme = "Bearer"
