package miniapp

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nfrund/miniapp/internal/domain"
)

// requestPlatform is the platform binding as seen from the server: the
// browser already called ready()/expand() and posted what the SDK exposed.
type requestPlatform struct {
	initData  domain.InitData
	rawUnsafe string
	logger    *slog.Logger
}

func newRequestPlatform(req VerifyRequest, logger *slog.Logger) *requestPlatform {
	return &requestPlatform{
		initData:  domain.InitData(req.InitData),
		rawUnsafe: req.InitDataUnsafe,
		logger:    logger,
	}
}

func (p *requestPlatform) Ready()  { p.logger.Debug("Platform ready signalled by client") }
func (p *requestPlatform) Expand() { p.logger.Debug("Platform expand signalled by client") }

func (p *requestPlatform) InitData() domain.InitData {
	return p.initData
}

func (p *requestPlatform) InitDataUnsafe() (domain.InitDataUnsafe, error) {
	var unsafe domain.InitDataUnsafe
	raw := strings.TrimSpace(p.rawUnsafe)
	if raw == "" {
		return unsafe, &domain.PlatformInitError{Reason: "platform data is missing, open this page from the chat app"}
	}
	if err := json.Unmarshal([]byte(raw), &unsafe); err != nil {
		return unsafe, &domain.PlatformInitError{Reason: "platform data is malformed", Err: err}
	}
	unsafe.Raw = json.RawMessage(raw)
	return unsafe, nil
}
