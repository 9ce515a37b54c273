package authflow

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsEmptyRoute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Routes.Dashboard = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected empty route rejected")
	}
}

func TestValidateRejectsRelativeRoute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Routes.SignUp = "signup"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected relative route rejected")
	}
}

func TestValidateRejectsNegativeProbeTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Probe.Timeout = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative timeout rejected")
	}
}

func TestDefaultRoutes(t *testing.T) {
	routes := DefaultConfig().Routes
	if routes.SignIn != "/signin" || routes.SignUp != "/signup" ||
		routes.Dashboard != "/dashboard" || routes.Landing != "/" {
		t.Fatalf("unexpected default routes %+v", routes)
	}
}
