package miniapp

import "net/url"

// VerifyRequest is the form posted by the page once the platform is ready.
type VerifyRequest struct {
	InitData       string `form:"init_data" validate:"max=8192"`
	InitDataUnsafe string `form:"init_data_unsafe" validate:"max=16384"`
	Endpoint       string `form:"endpoint" validate:"omitempty,url,max=2048"`
	Dev            string `form:"dev" validate:"omitempty,oneof=0 1 true false"`
}

// Query returns the overrides in the same shape as the page's query string.
func (r VerifyRequest) Query() url.Values {
	q := url.Values{}
	if r.Endpoint != "" {
		q.Set("endpoint", r.Endpoint)
	}
	if r.Dev != "" {
		q.Set("dev", r.Dev)
	}
	return q
}
