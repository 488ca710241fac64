package view

// PageData is the view model of the mini-app page. The values are forwarded
// with the verification request so the server can resolve them again.
type PageData struct {
	// VerifyPath is where the page posts platform data.
	VerifyPath string
	// Endpoint is a verification endpoint override taken from the query
	// string, or "" to use the configured one.
	Endpoint string
	// Dev requests the development bypass.
	Dev bool
}
