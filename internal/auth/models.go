package auth

// DevAuthResponse is the response for POST /v1/auth/dev.
type DevAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type errorResponse struct {
	Error string `json:"error"`
}
