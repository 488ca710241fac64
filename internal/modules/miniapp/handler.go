package miniapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/miniapp/internal/config"
	"github.com/nfrund/miniapp/internal/mockdata"
	"github.com/nfrund/miniapp/internal/middleware"
	"github.com/nfrund/miniapp/internal/modules/miniapp/events"
	"github.com/nfrund/miniapp/internal/modules/miniapp/view"
	"github.com/nfrund/miniapp/internal/profile"
	"github.com/nfrund/miniapp/internal/pubsub"
	"github.com/nfrund/miniapp/internal/verifier"
	"github.com/nfrund/miniapp/internal/verifyclient"
	gview "github.com/nfrund/miniapp/internal/view"
)

// Failures answered without running the verifier.
var (
	errTooManyRequests = errors.New("too many verification attempts, please try again later")
	errInternal        = errors.New("internal server error")
)

// Handler serves the mini-app page and runs verification requests.
type Handler struct {
	cfg        *config.Config
	publisher  pubsub.Publisher
	mocks      *mockdata.Store
	labels     profile.LabelSource
	httpClient *http.Client
	verifyPath string
}

// NewHandler creates a new Handler.
func NewHandler(deps Dependencies, verifyPath string) *Handler {
	return &Handler{
		cfg:        deps.Config,
		publisher:  deps.Publisher,
		mocks:      deps.MockStore,
		labels:     deps.Labels,
		httpClient: deps.HTTPClient,
		verifyPath: verifyPath,
	}
}

// Page renders the mini-app page. Query overrides the deployment forbids are
// dropped with a flash message.
func (h *Handler) Page(c echo.Context) error {
	resolved, err := h.cfg.Resolve(c.QueryParams())
	if err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Rejected page overrides", "error", err)
		gview.SetFlashError(c, "Ignored query parameters: "+err.Error())
		return c.Redirect(http.StatusSeeOther, c.Request().URL.Path)
	}

	data := view.PageData{
		VerifyPath: h.verifyPath,
		Dev:        resolved.Bypass,
	}
	if resolved.Endpoint != h.cfg.VerifyURL {
		data.Endpoint = resolved.Endpoint
	}

	page := view.Page(data, gview.NewBoard())
	return c.Render(http.StatusOK, "", gview.Base("Profile", gview.GetFlashData(c), gview.FromNode(page)))
}

// Verify runs one verification attempt and answers with the re-rendered
// regions. Failures are rendered inline; the response is always 200 so htmx
// swaps it in.
func (h *Handler) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	board := gview.NewBoard()

	outcome, bypass := h.run(c, board)
	h.publish(ctx, outcome, bypass)

	logger.Info("Verification request handled", "attempt_id", outcome.AttemptID, "state", outcome.State.String())
	return c.Render(http.StatusOK, "", gview.FromNode(view.Regions(board)))
}

func (h *Handler) run(c echo.Context, board *gview.Board) (verifier.Outcome, bool) {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return verifier.Abort(board, fmt.Errorf("invalid request: %w", err)), false
	}
	if err := c.Validate(&req); err != nil {
		return verifier.Abort(board, fmt.Errorf("invalid request: %w", err)), false
	}

	resolved, err := h.cfg.Resolve(req.Query())
	if err != nil {
		return verifier.Abort(board, err), false
	}

	opts := verifier.Options{
		Bypass:      resolved.Bypass,
		Diagnostics: resolved.Diagnostics,
		Labels:      h.labels,
		Logger:      logger,
	}

	var endpoint verifier.Endpoint
	if resolved.Bypass {
		mock := mockdata.DefaultUser()
		opts.Mock = &mock
		if h.mocks != nil {
			opts.Mock = h.mocks.Current()
		}
	} else {
		client, err := verifyclient.New(resolved.Endpoint, verifyclient.WithHTTPClient(h.httpClient))
		if err != nil {
			return verifier.Abort(board, err), false
		}
		endpoint = client
	}

	sv, err := verifier.New(newRequestPlatform(req, logger), endpoint, board, opts)
	if err != nil {
		return verifier.Abort(board, err), false
	}
	return sv.Run(ctx), resolved.Bypass
}

func (h *Handler) publish(ctx context.Context, outcome verifier.Outcome, bypass bool) {
	if h.publisher == nil {
		return
	}

	ev := events.Outcome{
		AttemptID: outcome.AttemptID,
		State:     outcome.State.String(),
		Bypass:    bypass,
		At:        time.Now().UTC(),
	}
	if outcome.Result != nil {
		ev.StatusCode = outcome.Result.StatusCode
	}
	if outcome.Err != nil {
		ev.Error = outcome.Err.Error()
	}
	var userID string
	if outcome.User != nil {
		ev.UserID = outcome.User.ID
		userID = strconv.FormatInt(outcome.User.ID, 10)
	}

	// The request context may already be done once the response is written.
	if err := pubsub.Publish(context.WithoutCancel(ctx), h.publisher, events.VerificationOutcome, userID, ev); err != nil {
		middleware.FromContext(ctx).Error("Failed to publish verification outcome", "error", err)
	}
}

// Throttled answers a rate-limited verify request with Failed regions.
func (h *Handler) Throttled(c echo.Context) error {
	return h.renderFailure(c, errTooManyRequests)
}

// inlineFailures keeps the verify route inside the htmx swap: a panic or an
// unhandled error becomes Failed regions with status 200 instead of reaching
// the global error handler.
func (h *Handler) inlineFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		logger := middleware.FromContext(c.Request().Context())
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}
			logger.Error("Verify handler panicked",
				slog.Any("panic", r),
				slog.String("stack_trace", string(debug.Stack())),
			)
			if !c.Response().Committed {
				err = h.renderFailure(c, errInternal)
			}
		}()

		if err = next(c); err == nil || c.Response().Committed {
			return err
		}
		logger.Error("Verify handler failed", "error", err)
		return h.renderFailure(c, errInternal)
	}
}

func (h *Handler) renderFailure(c echo.Context, cause error) error {
	board := gview.NewBoard()
	outcome := verifier.Reject(board, cause)
	h.publish(c.Request().Context(), outcome, false)
	return c.Render(http.StatusOK, "", gview.FromNode(view.Regions(board)))
}
