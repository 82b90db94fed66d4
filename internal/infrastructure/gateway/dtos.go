package gateway

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string            `json:"reference"`
		Status    string            `json:"status"`
		Amount    int64             `json:"amount"`
		Currency  string            `json:"currency"`
		Metadata  map[string]string `json:"metadata"`
	} `json:"data"`
}

type gatewayErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// WebhookPayload is the provider-pushed event body. The signature header
// is a keyed hash over the raw bytes, so it must be validated before this
// structure is trusted.
type WebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string            `json:"reference"`
		Status    string            `json:"status"`
		Amount    int64             `json:"amount"`
		Currency  string            `json:"currency"`
		Metadata  map[string]string `json:"metadata"`
	} `json:"data"`
}
