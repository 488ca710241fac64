package verifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nfrund/miniapp/internal/domain"
	"github.com/nfrund/miniapp/internal/profile"
	"github.com/nfrund/miniapp/internal/verifier"
	"github.com/nfrund/miniapp/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	initData  domain.InitData
	unsafe    domain.InitDataUnsafe
	unsafeErr error
	ready     int
	expanded  int
}

func (p *fakePlatform) Ready()                    { p.ready++ }
func (p *fakePlatform) Expand()                   { p.expanded++ }
func (p *fakePlatform) InitData() domain.InitData { return p.initData }
func (p *fakePlatform) InitDataUnsafe() (domain.InitDataUnsafe, error) {
	return p.unsafe, p.unsafeErr
}

type fakeEndpoint struct {
	result *domain.VerificationResult
	err    error
	calls  []domain.InitData
}

func (e *fakeEndpoint) Verify(_ context.Context, initData domain.InitData) (*domain.VerificationResult, error) {
	e.calls = append(e.calls, initData)
	return e.result, e.err
}

func testUser() *domain.UnsafeUserView {
	return &domain.UnsafeUserView{
		ID:              99,
		FirstName:       "Grace",
		LastName:        "Hopper",
		Username:        "grace",
		LanguageCode:    "en",
		IsPremium:       false,
		AllowsWriteToPM: true,
	}
}

func newPlatform() *fakePlatform {
	return &fakePlatform{
		initData: "query_id=AAA&hash=abc",
		unsafe:   domain.InitDataUnsafe{User: testUser(), AuthDate: 1700000000},
	}
}

func TestNew_Validation(t *testing.T) {
	p, e, b := newPlatform(), &fakeEndpoint{}, view.NewBoard()

	_, err := verifier.New(p, e, nil, verifier.Options{})
	assert.ErrorIs(t, err, verifier.ErrNoView)

	_, err = verifier.New(nil, e, b, verifier.Options{})
	assert.ErrorIs(t, err, verifier.ErrNoPlatform)

	_, err = verifier.New(p, nil, b, verifier.Options{})
	assert.ErrorIs(t, err, verifier.ErrNoEndpoint)

	_, err = verifier.New(nil, nil, b, verifier.Options{Bypass: true})
	assert.ErrorIs(t, err, verifier.ErrNoMockUser)

	sv, err := verifier.New(nil, nil, b, verifier.Options{Bypass: true, Mock: testUser()})
	require.NoError(t, err)
	assert.Equal(t, verifier.Idle, sv.State())
}

func TestRun_Verified(t *testing.T) {
	p := newPlatform()
	e := &fakeEndpoint{result: &domain.VerificationResult{
		StatusCode: 200,
		Body:       `{"ok":true}`,
		Payload:    map[string]any{"ok": true},
	}}
	b := view.NewBoard()

	sv, err := verifier.New(p, e, b, verifier.Options{})
	require.NoError(t, err)

	out := sv.Run(context.Background())

	assert.Equal(t, verifier.Verified, out.State)
	assert.Equal(t, []verifier.State{verifier.Idle, verifier.Checking, verifier.Verified}, out.Trail)
	assert.NoError(t, out.Err)
	assert.NotEmpty(t, out.AttemptID)
	assert.Equal(t, 1, p.ready)
	assert.Equal(t, 1, p.expanded)

	// exactly one call, with the opaque init data unchanged
	assert.Equal(t, []domain.InitData{"query_id=AAA&hash=abc"}, e.calls)

	assert.Equal(t, verifier.StatusVerified, b.Text(verifier.FieldStatus))
	assert.Equal(t, verifier.ToneSuccess, b.Tone(verifier.FieldStatus))
	assert.True(t, b.Visible(verifier.FieldProfile))
	assert.Equal(t, `{"ok":true}`, b.Text(verifier.FieldServerResponse))
	assert.Contains(t, b.Text(verifier.FieldRawData), "\n  \"user\": {")

	// profile comes from the unsafe view, never from the response
	assert.Equal(t, "Grace Hopper", b.Text(verifier.FieldName))
	assert.Equal(t, "@grace", b.Text(verifier.FieldHandle))
	assert.Equal(t, "99", b.Text(verifier.FieldUserID))
	assert.Equal(t, "Yes", b.Text(verifier.FieldCanWrite))
	assert.Equal(t, "Standard", b.Text(verifier.FieldAccountType))
	assert.False(t, b.Visible(verifier.FieldAvatar))
	assert.False(t, b.Visible(verifier.FieldPremiumBadge))
}

func TestRun_Failed(t *testing.T) {
	tests := []struct {
		name     string
		endpoint *fakeEndpoint
		sentinel error
		status   string
	}{
		{
			name:     "network error",
			endpoint: &fakeEndpoint{err: &domain.NetworkError{Err: errors.New("dial tcp: refused")}},
			sentinel: domain.ErrNetwork,
			status:   "❌ Error: network error: dial tcp: refused",
		},
		{
			name: "rejection with detail",
			endpoint: &fakeEndpoint{
				result: &domain.VerificationResult{StatusCode: 403, Body: `{"detail":"bad signature"}`},
				err:    &domain.ServerRejection{StatusCode: 403, Detail: "bad signature"},
			},
			sentinel: domain.ErrRejected,
			status:   "❌ Error: HTTP error! status: 403: bad signature",
		},
		{
			name:     "non-2xx result without error",
			endpoint: &fakeEndpoint{result: &domain.VerificationResult{StatusCode: 500, Body: "oops"}},
			sentinel: domain.ErrRejected,
			status:   "❌ Error: HTTP error! status: 500",
		},
		{
			name: "malformed body",
			endpoint: &fakeEndpoint{
				result: &domain.VerificationResult{StatusCode: 200, Body: "<html>"},
				err:    &domain.ResponseParseError{Err: errors.New("invalid character '<'")},
			},
			sentinel: domain.ErrMalformedResponse,
			status:   "❌ Error: invalid response body: invalid character '<'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := view.NewBoard()
			sv, err := verifier.New(newPlatform(), tt.endpoint, b, verifier.Options{})
			require.NoError(t, err)

			out := sv.Run(context.Background())

			assert.Equal(t, verifier.Failed, out.State)
			assert.Equal(t, []verifier.State{verifier.Idle, verifier.Checking, verifier.Failed}, out.Trail)
			assert.ErrorIs(t, out.Err, tt.sentinel)
			assert.Equal(t, tt.status, b.Text(verifier.FieldStatus))
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, verifier.ToneError, b.Tone(verifier.FieldStatus))
			assert.False(t, b.Visible(verifier.FieldProfile))
			assert.Equal(t, out.Err.Error(), b.Text(verifier.FieldServerResponse))
			assert.Len(t, tt.endpoint.calls, 1)

			for _, f := range verifier.ProfileFields() {
				assert.False(t, b.Touched(f), "profile field %s was mutated", f)
			}
		})
	}
}

func TestRun_Diagnostics(t *testing.T) {
	b := view.NewBoard()
	e := &fakeEndpoint{
		result: &domain.VerificationResult{StatusCode: 401, Body: `{"detail":"expired"}`},
		err:    &domain.ServerRejection{StatusCode: 401, Detail: "expired"},
	}
	sv, err := verifier.New(newPlatform(), e, b, verifier.Options{Diagnostics: true})
	require.NoError(t, err)

	sv.Run(context.Background())

	details := b.Text(verifier.FieldServerResponse)
	assert.Contains(t, details, "*domain.ServerRejection: HTTP error! status: 401: expired")
	assert.Contains(t, details, "response status: 401")
	assert.Contains(t, details, `{"detail":"expired"}`)
}

func TestRun_PlatformErrors(t *testing.T) {
	tests := []struct {
		name     string
		platform *fakePlatform
		wantIdle bool
	}{
		{
			name:     "malformed unsafe data",
			platform: &fakePlatform{initData: "x", unsafeErr: errors.New("unexpected end of JSON input")},
		},
		{
			name:     "no user",
			platform: &fakePlatform{initData: "x"},
		},
		{
			name:     "empty init data",
			platform: &fakePlatform{unsafe: domain.InitDataUnsafe{User: testUser()}},
			wantIdle: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := view.NewBoard()
			e := &fakeEndpoint{}
			sv, err := verifier.New(tt.platform, e, b, verifier.Options{})
			require.NoError(t, err)

			out := sv.Run(context.Background())

			assert.Equal(t, verifier.Failed, out.State)
			assert.ErrorIs(t, out.Err, domain.ErrPlatformInit)
			assert.Empty(t, e.calls, "endpoint must not be called")
			assert.Contains(t, b.Text(verifier.FieldStatus), "Critical error: ")
			assert.False(t, b.Touched(verifier.FieldServerResponse))
			assert.Equal(t, tt.wantIdle, b.Touched(verifier.FieldRawData))
			for _, f := range verifier.ProfileFields() {
				assert.False(t, b.Touched(f))
			}
		})
	}
}

func TestRun_Bypass(t *testing.T) {
	b := view.NewBoard()
	mock := testUser()
	mock.LanguageCode = "ru"
	mock.IsPremium = true

	labels, err := profile.NewCatalog("en")
	require.NoError(t, err)

	sv, err := verifier.New(nil, nil, b, verifier.Options{
		Bypass: true,
		Mock:   mock,
		Labels: labels,
	})
	require.NoError(t, err)

	out := sv.Run(context.Background())

	assert.Equal(t, verifier.Verified, out.State)
	assert.Equal(t, []verifier.State{verifier.Idle, verifier.Verified}, out.Trail)
	assert.Equal(t, verifier.StatusBypassed, b.Text(verifier.FieldStatus))
	assert.True(t, b.Visible(verifier.FieldProfile))
	assert.True(t, b.Visible(verifier.FieldPremiumBadge))
	assert.Equal(t, "Премиум", b.Text(verifier.FieldAccountType))
	assert.Equal(t, "Да", b.Text(verifier.FieldCanWrite))
	assert.False(t, b.Touched(verifier.FieldServerResponse))
}

func TestRun_RepeatedProjectionOverwrites(t *testing.T) {
	b := view.NewBoard()
	ok := &domain.VerificationResult{StatusCode: 200, Body: "{}"}

	for i := 0; i < 2; i++ {
		sv, err := verifier.New(newPlatform(), &fakeEndpoint{result: ok}, b, verifier.Options{})
		require.NoError(t, err)
		sv.Run(context.Background())
	}

	assert.Equal(t, "Grace Hopper", b.Text(verifier.FieldName))
	assert.Equal(t, "@grace", b.Text(verifier.FieldHandle))
}

func TestAbort(t *testing.T) {
	b := view.NewBoard()
	out := verifier.Abort(b, errors.New("init_data_unsafe: invalid"))

	assert.Equal(t, verifier.Failed, out.State)
	assert.ErrorIs(t, out.Err, domain.ErrPlatformInit)
	assert.Contains(t, b.Text(verifier.FieldStatus), "Critical error: ")
	assert.Equal(t, verifier.ToneError, b.Tone(verifier.FieldStatus))

	assert.NotPanics(t, func() {
		out := verifier.Abort(nil, errors.New("boom"))
		assert.Equal(t, verifier.Failed, out.State)
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", verifier.Idle.String())
	assert.Equal(t, "checking", verifier.Checking.String())
	assert.Equal(t, "verified", verifier.Verified.String())
	assert.Equal(t, "failed", verifier.Failed.String())
	assert.False(t, verifier.Checking.Terminal())
	assert.True(t, verifier.Failed.Terminal())
}

func TestRun_RawDataUsesPlatformBytes(t *testing.T) {
	p := newPlatform()
	p.unsafe.Raw = []byte(`{"user":{"id":99,"is_bot":false},"chat_instance":"-5"}`)
	b := view.NewBoard()

	sv, err := verifier.New(p, &fakeEndpoint{result: &domain.VerificationResult{StatusCode: 200, Body: "{}"}}, b, verifier.Options{})
	require.NoError(t, err)
	sv.Run(context.Background())

	assert.Equal(t, "{\n  \"user\": {\n    \"id\": 99,\n    \"is_bot\": false\n  },\n  \"chat_instance\": \"-5\"\n}",
		b.Text(verifier.FieldRawData))
}

func TestReject(t *testing.T) {
	b := view.NewBoard()
	out := verifier.Reject(b, errors.New("too many verification attempts"))

	assert.Equal(t, verifier.Failed, out.State)
	assert.Equal(t, "❌ Error: too many verification attempts", b.Text(verifier.FieldStatus))
	assert.Equal(t, "too many verification attempts", b.Text(verifier.FieldServerResponse))
	assert.False(t, b.Visible(verifier.FieldProfile))
	for _, f := range verifier.ProfileFields() {
		assert.False(t, b.Touched(f))
	}

	assert.NotPanics(t, func() {
		assert.Equal(t, verifier.Failed, verifier.Reject(nil, errors.New("x")).State)
	})
}
