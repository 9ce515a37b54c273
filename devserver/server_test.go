package devserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/strategiz-io/authflow"
	"github.com/strategiz-io/authflow/httpclient"
)

func newTestServer(t *testing.T) (*httptest.Server, *httpclient.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := Config{
		RedisAddr:  mr.Addr(),
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		SMSCodeTTL: 5 * time.Minute,
	}

	ts := httptest.NewServer(New(cfg, rdb).Handler())
	t.Cleanup(ts.Close)

	return ts, httpclient.New(ts.URL)
}

func register(t *testing.T, c *httpclient.Client, email string) authflow.User {
	t.Helper()

	res, err := c.CreateUser(context.Background(), authflow.CreateUserInput{
		Name:       "Test User",
		Email:      email,
		AuthMethod: authflow.MethodPassword,
	})
	if err != nil {
		t.Fatalf("CreateUser fault: %v", err)
	}
	if !res.Success || res.Data == nil {
		t.Fatalf("CreateUser failed: %s", res.FailureText())
	}
	return *res.Data
}

func TestRegisterAndDuplicate(t *testing.T) {
	_, c := newTestServer(t)

	user := register(t, c, "ada@example.com")
	if user.ID == "" || user.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	res, err := c.CreateUser(context.Background(), authflow.CreateUserInput{
		Name:       "Ada Again",
		Email:      "ada@example.com",
		AuthMethod: authflow.MethodPassword,
	})
	if err != nil {
		t.Fatalf("CreateUser fault: %v", err)
	}
	if res.Success {
		t.Fatal("expected duplicate email rejected")
	}
}

func TestLoginAndSessionLifecycle(t *testing.T) {
	_, c := newTestServer(t)
	register(t, c, "ada@example.com")

	// Registration establishes a session; /auth/me sees it.
	me, err := c.RefreshSession(context.Background())
	if err != nil {
		t.Fatalf("RefreshSession fault: %v", err)
	}
	if !me.Success {
		t.Fatalf("expected live session, got %s", me.FailureText())
	}

	out, err := c.SignOut(context.Background())
	if err != nil || !out.Success {
		t.Fatalf("SignOut failed: err=%v res=%+v", err, out)
	}

	me, err = c.RefreshSession(context.Background())
	if err != nil {
		t.Fatalf("RefreshSession fault: %v", err)
	}
	if me.Success {
		t.Fatal("expected session revoked after sign-out")
	}

	// The default dev password signs back in.
	in, err := c.SignIn(context.Background(), "ada@example.com", "devpass")
	if err != nil || !in.Success {
		t.Fatalf("SignIn failed: err=%v res=%s", err, in.FailureText())
	}

	bad, err := c.SignIn(context.Background(), "ada@example.com", "wrong")
	if err != nil {
		t.Fatalf("SignIn fault: %v", err)
	}
	if bad.Success {
		t.Fatal("expected wrong password rejected")
	}
}

func TestSMSFlow(t *testing.T) {
	ts, c := newTestServer(t)

	// The dev backend hands the code back in a header instead of
	// sending an SMS.
	resp, err := http.Post(ts.URL+"/auth/sms/send", "application/json",
		bytes.NewBufferString(`{"phone":"+15550001"}`))
	if err != nil {
		t.Fatalf("send request failed: %v", err)
	}
	resp.Body.Close()
	code := resp.Header.Get("X-Dev-SMS-Code")
	if len(code) != 6 {
		t.Fatalf("expected six digit code, got %q", code)
	}

	res, err := c.VerifySMSCode(context.Background(), code)
	if err != nil {
		t.Fatalf("VerifySMSCode fault: %v", err)
	}
	if !res.Success || res.Data == nil {
		t.Fatalf("expected verification to authenticate, got %s", res.FailureText())
	}

	// One-time: the same code must not redeem twice.
	again, err := c.VerifySMSCode(context.Background(), code)
	if err != nil {
		t.Fatalf("VerifySMSCode fault: %v", err)
	}
	if again.Success {
		t.Fatal("expected consumed code rejected")
	}
}

func TestTOTPVerify(t *testing.T) {
	_, c := newTestServer(t)
	register(t, c, "ada@example.com")

	res, err := c.VerifyTOTP(context.Background(), "ada@example.com", devTOTPCode)
	if err != nil || !res.Success {
		t.Fatalf("expected dev code accepted: err=%v res=%s", err, res.FailureText())
	}

	bad, err := c.VerifyTOTP(context.Background(), "ada@example.com", "000000")
	if err != nil {
		t.Fatalf("VerifyTOTP fault: %v", err)
	}
	if bad.Success {
		t.Fatal("expected wrong code rejected")
	}
}

func TestPasskeyEnrollAndLogin(t *testing.T) {
	_, c := newTestServer(t)
	user := register(t, c, "ada@example.com")

	noKey, err := c.SignInWithPasskey(context.Background())
	if err != nil {
		t.Fatalf("SignInWithPasskey fault: %v", err)
	}
	if noKey.Success {
		t.Fatal("expected passkey login refused before enrollment")
	}

	reg, err := c.RegisterPasskey(context.Background(), user.ID)
	if err != nil || !reg.Success {
		t.Fatalf("RegisterPasskey failed: err=%v res=%+v", err, reg)
	}

	in, err := c.SignInWithPasskey(context.Background())
	if err != nil || !in.Success || in.Data == nil || in.Data.ID != user.ID {
		t.Fatalf("expected passkey login for enrolled user: err=%v res=%+v", err, in)
	}
}

func TestOAuthProvisionsOnFirstUse(t *testing.T) {
	_, c := newTestServer(t)

	res, err := c.SignInWithProvider(context.Background(), authflow.ProviderGoogle)
	if err != nil || !res.Success || res.Data == nil {
		t.Fatalf("expected provider sign-in: err=%v res=%+v", err, res)
	}

	again, err := c.SignInWithProvider(context.Background(), authflow.ProviderGoogle)
	if err != nil || !again.Success {
		t.Fatalf("expected repeat provider sign-in: err=%v", err)
	}
	if again.Data.ID != res.Data.ID {
		t.Fatal("expected the same provisioned identity on repeat sign-in")
	}
}

func TestAuthMethodsAndPasskeySupport(t *testing.T) {
	_, c := newTestServer(t)

	methods, err := c.AvailableAuthMethods(context.Background())
	if err != nil {
		t.Fatalf("AvailableAuthMethods failed: %v", err)
	}
	if !methods.Passkey || !methods.SMS || !methods.TOTP || !methods.OAuth.Google {
		t.Fatalf("expected every method enabled on the dev backend, got %+v", methods)
	}
	if !c.PasskeySupported(context.Background()) {
		t.Fatal("expected passkey support")
	}
}

func TestControllerAgainstDevServer(t *testing.T) {
	_, c := newTestServer(t)

	var routes []string
	controller, err := authflow.New().
		WithService(c).
		WithNavigator(authflow.NavigatorFunc(func(route string) {
			routes = append(routes, route)
		})).
		WithProbeDisabled().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer controller.Close()

	ctx := context.Background()

	if !controller.SignUp(ctx, authflow.SignUpInput{
		Name:       "Ada",
		Email:      "ada@example.com",
		AuthMethod: authflow.MethodPassword,
	}) {
		t.Fatalf("sign-up failed: %s", controller.Session().Error)
	}
	if !controller.Session().IsAuthenticated {
		t.Fatal("expected authenticated after sign-up")
	}

	if !controller.SignOut(ctx) {
		t.Fatal("sign-out failed")
	}
	if controller.Session().IsAuthenticated {
		t.Fatal("expected signed out")
	}

	if !controller.SignIn(ctx, authflow.SignInInput{
		Email:    "ada@example.com",
		Password: "devpass",
	}) {
		t.Fatalf("sign-in failed: %s", controller.Session().Error)
	}

	if len(routes) < 2 || routes[len(routes)-1] != "/dashboard" {
		t.Fatalf("unexpected navigation trail %v", routes)
	}
}
