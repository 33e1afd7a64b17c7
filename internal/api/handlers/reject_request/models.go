package reject_request

// RejectRequestRequest HTTP request model
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}
