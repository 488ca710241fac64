package cmd

import (
	"github.com/nfrund/miniapp/internal/domain"
)

// flagPlatform stands in for the host platform when running from a terminal.
type flagPlatform struct {
	initData domain.InitData
	user     *domain.UnsafeUserView
}

func (p *flagPlatform) Ready()  {}
func (p *flagPlatform) Expand() {}

func (p *flagPlatform) InitData() domain.InitData {
	return p.initData
}

func (p *flagPlatform) InitDataUnsafe() (domain.InitDataUnsafe, error) {
	if p.user == nil {
		return domain.InitDataUnsafe{}, &domain.PlatformInitError{Reason: "no user supplied, pass --user-json"}
	}
	u := *p.user
	return domain.InitDataUnsafe{User: &u}, nil
}
