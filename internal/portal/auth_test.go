package portal

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"rosterhound/internal/automation"
	"rosterhound/internal/config"
)

func testPortalConfig() config.PortalConfig {
	cfg := config.DefaultConfig().Portal
	cfg.LoginURL = "https://sts.example.net/adfs/ls/"
	cfg.SettleMs = 1
	cfg.SelectorTimeoutMs = 10
	return cfg
}

func loginForm() (*automation.FakeDriver, *automation.FakeElement, *automation.FakeElement, *automation.FakeElement) {
	drv := automation.NewFakeDriver()
	user := &automation.FakeElement{}
	pass := &automation.FakeElement{}
	submit := &automation.FakeElement{}
	drv.Set("#userNameInput", user)
	drv.Set("#passwordInput", pass)
	drv.Set("#submitButton", submit)
	return drv, user, pass, submit
}

func TestLogin_Succeeds(t *testing.T) {
	drv, user, pass, submit := loginForm()
	submit.OnClick = func() {
		drv.URL = "https://crew.example.net/portal/home"
		drv.Title = "Crew Portal"
	}

	auth := NewAuthenticator(drv, testPortalConfig(), zap.NewNop())
	sess, err := auth.Login(context.Background(), "12345", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !sess.Authenticated || sess.ID == "" {
		t.Errorf("session = %+v", sess)
	}
	if auth.State() != StateAuthenticated {
		t.Errorf("state = %v", auth.State())
	}
	if len(user.Inputs) != 1 || user.Inputs[0] != "12345" {
		t.Errorf("username inputs = %v", user.Inputs)
	}
	if len(pass.Inputs) != 1 || pass.Inputs[0] != "hunter2" {
		t.Errorf("password inputs = %v", pass.Inputs)
	}
	if submit.Clicked != 1 {
		t.Errorf("submit clicked %d times", submit.Clicked)
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	// Submit leaves the session parked on the identity provider.
	drv, _, _, _ := loginForm()

	auth := NewAuthenticator(drv, testPortalConfig(), zap.NewNop())
	_, err := auth.Login(context.Background(), "12345", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if auth.State() != StateRejected {
		t.Errorf("state = %v", auth.State())
	}
	if Retriable(err) {
		t.Error("credential rejection must be terminal")
	}
}

func TestLogin_UsernameFieldNotFound(t *testing.T) {
	drv := automation.NewFakeDriver()

	auth := NewAuthenticator(drv, testPortalConfig(), zap.NewNop())
	_, err := auth.Login(context.Background(), "12345", "hunter2")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("err = %v, want ErrFieldNotFound", err)
	}
	if Retriable(err) {
		t.Error("exhausted locator candidates must be terminal")
	}
}

func TestLogin_FallsBackToEnterWithoutSubmitControl(t *testing.T) {
	drv := automation.NewFakeDriver()
	drv.Set("#userNameInput", &automation.FakeElement{})
	drv.Set("#passwordInput", &automation.FakeElement{})
	drv.Title = "Crew Portal Home"
	drv.OnNavigate = func(string) { drv.URL = "https://crew.example.net/portal/home" }

	auth := NewAuthenticator(drv, testPortalConfig(), zap.NewNop())
	if _, err := auth.Login(context.Background(), "12345", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if drv.EnterPresses != 1 {
		t.Errorf("enter pressed %d times, want 1", drv.EnterPresses)
	}
}

// A rejected login must abort the whole run: no second driver is opened.
func TestService_InvalidCredentialsNotRetried(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Portal = testPortalConfig()
	cfg.Retry.InitialBackoffMs = 1
	cfg.Retry.MaxBackoffMs = 1

	attempts := 0
	svc := NewServiceWithDriverFactory(cfg, zap.NewNop(), func(ctx context.Context) (automation.Driver, error) {
		attempts++
		drv, _, _, _ := loginForm()
		return drv, nil
	})

	_, err := svc.ExtractSchedule(context.Background(), Request{
		EmployeeID: "12345",
		Password:   "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if attempts != 1 {
		t.Errorf("driver opened %d times, want exactly 1", attempts)
	}
}
