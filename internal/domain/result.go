package domain

// VerificationResult is what the verification endpoint answered for a single
// attempt. It is discarded once the outcome has been rendered.
type VerificationResult struct {
	StatusCode int
	// Body is the raw response text, shown verbatim in the server-response panel.
	Body string
	// Payload is the decoded JSON body of a successful response. Its shape is
	// not fixed by the endpoint.
	Payload any
}

// OK reports whether the endpoint answered with a 2xx status.
func (r *VerificationResult) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}
