package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nfrund/miniapp/internal/domain"
	"github.com/nfrund/miniapp/internal/profile"
)

// Construction errors returned by New.
var (
	ErrNoView     = errors.New("verifier: view binding is required")
	ErrNoPlatform = errors.New("verifier: platform binding is required")
	ErrNoEndpoint = errors.New("verifier: verification endpoint is required")
	ErrNoMockUser = errors.New("verifier: bypass mode requires a mock user")
)

// Platform is the capability the host platform hands to the mini-app.
type Platform interface {
	Ready()
	Expand()
	InitData() domain.InitData
	InitDataUnsafe() (domain.InitDataUnsafe, error)
}

// Endpoint verifies init data remotely. It may return a non-nil result
// together with an error when the server answered but the answer is a failure.
type Endpoint interface {
	Verify(ctx context.Context, initData domain.InitData) (*domain.VerificationResult, error)
}

// Options tune a single verification run.
type Options struct {
	// Bypass skips the endpoint and goes straight to Verified with Mock.
	// Callers must only set it when bypass was explicitly allowed.
	Bypass bool
	Mock   *domain.UnsafeUserView
	// Diagnostics adds a technical trace to the response-details panel on failure.
	Diagnostics bool
	Labels      profile.LabelSource
	Logger      *slog.Logger
}

// Outcome is the terminal result of Run.
type Outcome struct {
	AttemptID string
	State     State
	Status    string
	Err       error
	Result    *domain.VerificationResult
	User      *domain.UnsafeUserView
	// Trail lists every state entered, in order.
	Trail []State
}

// SessionVerifier runs the verification flow once and drives a View through
// the resulting state transitions.
type SessionVerifier struct {
	platform Platform
	endpoint Endpoint
	view     View
	opts     Options
	logger   *slog.Logger

	state State
	trail []State
}

// New validates the bindings once, up front.
func New(platform Platform, endpoint Endpoint, view View, opts Options) (*SessionVerifier, error) {
	if view == nil {
		return nil, ErrNoView
	}
	if opts.Bypass {
		if opts.Mock == nil {
			return nil, ErrNoMockUser
		}
	} else {
		if platform == nil {
			return nil, ErrNoPlatform
		}
		if endpoint == nil {
			return nil, ErrNoEndpoint
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionVerifier{
		platform: platform,
		endpoint: endpoint,
		view:     view,
		opts:     opts,
		logger:   logger,
		state:    Idle,
	}, nil
}

// State returns the current state of the machine.
func (s *SessionVerifier) State() State {
	return s.state
}

// renderData carries everything a transition may need to display.
type renderData struct {
	unsafe   *domain.InitDataUnsafe
	user     *domain.UnsafeUserView
	result   *domain.VerificationResult
	err      error
	critical bool
	bypass   bool
}

// Run performs the flow. Failures never escape as errors: they end in the
// Failed state and are reported through the Outcome.
func (s *SessionVerifier) Run(ctx context.Context) Outcome {
	attemptID := uuid.NewString()
	logger := s.logger.With("attempt_id", attemptID)

	if s.platform != nil {
		s.platform.Ready()
		s.platform.Expand()
	}

	if s.opts.Bypass {
		logger.Warn("Verification bypassed, using mock session data", "user_id", s.opts.Mock.ID)
		mock := *s.opts.Mock
		unsafe := domain.InitDataUnsafe{User: &mock}
		s.transition(Idle, renderData{unsafe: &unsafe})
		status := s.transition(Verified, renderData{user: &mock, bypass: true})
		return s.outcome(attemptID, status, renderData{user: &mock})
	}

	unsafe, err := s.platform.InitDataUnsafe()
	if err == nil && unsafe.User == nil {
		err = &domain.PlatformInitError{Reason: "platform supplied no user"}
	}
	if err != nil {
		return s.fail(logger, attemptID, renderData{err: platformError(err), critical: true})
	}

	s.transition(Idle, renderData{unsafe: &unsafe})

	initData := s.platform.InitData()
	if initData.Empty() {
		return s.fail(logger, attemptID, renderData{
			err:      &domain.PlatformInitError{Reason: "platform supplied no init data"},
			critical: true,
		})
	}

	s.transition(Checking, renderData{})
	logger.Debug("Verifying init data", "user_id", unsafe.User.ID)

	result, err := s.endpoint.Verify(ctx, initData)
	if err == nil && !result.OK() {
		err = &domain.ServerRejection{StatusCode: statusOf(result)}
	}
	if err != nil {
		return s.fail(logger, attemptID, renderData{result: result, err: err})
	}

	status := s.transition(Verified, renderData{user: unsafe.User, result: result})
	logger.Info("Init data verified", "user_id", unsafe.User.ID, "status_code", result.StatusCode)
	return s.outcome(attemptID, status, renderData{user: unsafe.User, result: result})
}

func (s *SessionVerifier) fail(logger *slog.Logger, attemptID string, d renderData) Outcome {
	status := s.transition(Failed, d)
	logger.Warn("Init data verification failed", "error", d.err, "critical", d.critical)
	return s.outcome(attemptID, status, d)
}

func (s *SessionVerifier) outcome(attemptID, status string, d renderData) Outcome {
	return Outcome{
		AttemptID: attemptID,
		State:     s.state,
		Status:    status,
		Err:       d.err,
		Result:    d.result,
		User:      d.user,
		Trail:     append([]State(nil), s.trail...),
	}
}

// transition records the new state and renders it. It returns the status text
// that was displayed.
func (s *SessionVerifier) transition(next State, d renderData) string {
	s.state = next
	s.trail = append(s.trail, next)
	return s.render(next, d)
}

// render is the only place that mutates the view.
func (s *SessionVerifier) render(state State, d renderData) string {
	v := s.view
	var status string

	switch state {
	case Idle:
		status = StatusStarting
		v.SetText(FieldRawData, rawData(d.unsafe))
		v.SetVisible(FieldProfile, false)
		v.SetTone(FieldStatus, ToneNeutral)

	case Checking:
		status = StatusChecking
		v.SetTone(FieldStatus, ToneNeutral)

	case Verified:
		status = StatusVerified
		if d.bypass {
			status = StatusBypassed
		}
		v.SetTone(FieldStatus, ToneSuccess)
		if d.result != nil {
			v.SetText(FieldServerResponse, d.result.Body)
		}
		v.SetVisible(FieldProfile, true)
		applyProjection(v, profile.Project(*d.user, s.labels(d.user.LanguageCode)))

	case Failed:
		v.SetTone(FieldStatus, ToneError)
		if d.critical {
			status = statusCritical(d.err.Error())
			break
		}
		status = statusFailed(d.err.Error())
		v.SetVisible(FieldProfile, false)
		details := d.err.Error()
		if s.opts.Diagnostics {
			details = Trace(d.err, d.result)
		}
		v.SetText(FieldServerResponse, details)
	}

	v.SetText(FieldStatus, status)
	return status
}

func (s *SessionVerifier) labels(languageCode string) profile.Labels {
	if s.opts.Labels == nil {
		return profile.DefaultLabels()
	}
	return s.opts.Labels.Labels(languageCode)
}

func applyProjection(v View, p profile.Projection) {
	v.SetText(FieldName, p.DisplayName)
	v.SetText(FieldHandle, p.Handle)
	v.SetText(FieldAvatar, p.AvatarURL)
	v.SetVisible(FieldAvatar, p.ShowAvatar)
	v.SetVisible(FieldPremiumBadge, p.Premium)
	v.SetText(FieldUserID, p.ID)
	v.SetText(FieldLocale, p.Locale)
	v.SetText(FieldCanWrite, p.CanWrite)
	v.SetText(FieldAccountType, p.AccountType)
}

// Trace renders the error chain with concrete types, followed by the raw
// response when the server answered.
func Trace(err error, result *domain.VerificationResult) string {
	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(&b, "%T: %v\n", e, e)
	}
	if result != nil {
		fmt.Fprintf(&b, "\nresponse status: %d\nresponse body:\n%s\n", result.StatusCode, result.Body)
	}
	return strings.TrimRight(b.String(), "\n")
}

func platformError(err error) error {
	if errors.Is(err, domain.ErrPlatformInit) {
		return err
	}
	return &domain.PlatformInitError{Reason: "platform binding is malformed", Err: err}
}

func statusOf(r *domain.VerificationResult) int {
	if r == nil {
		return 0
	}
	return r.StatusCode
}

// rawData shows the session as the platform sent it when the original bytes
// are known, so unmodelled fields and false flags survive.
func rawData(u *domain.InitDataUnsafe) string {
	if u != nil && len(u.Raw) > 0 {
		var out bytes.Buffer
		if err := json.Indent(&out, u.Raw, "", "  "); err == nil {
			return out.String()
		}
	}
	return prettyJSON(u)
}

func prettyJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}

// Abort renders a fatal failure that happened before a SessionVerifier could
// be set up, using the same rendering as a platform failure.
func Abort(view View, err error) Outcome {
	if view == nil {
		return Outcome{AttemptID: uuid.NewString(), State: Failed, Err: platformError(err), Trail: []State{Failed}}
	}
	s := &SessionVerifier{view: view, logger: slog.Default(), state: Idle}
	return s.fail(s.logger, uuid.NewString(), renderData{err: platformError(err), critical: true})
}

// Reject renders a non-fatal failure that happened outside Run, such as a
// request refused before it reached the endpoint.
func Reject(view View, err error) Outcome {
	if view == nil {
		return Outcome{AttemptID: uuid.NewString(), State: Failed, Err: err, Trail: []State{Failed}}
	}
	s := &SessionVerifier{view: view, logger: slog.Default(), state: Idle}
	return s.fail(s.logger, uuid.NewString(), renderData{err: err})
}
