package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/smart-router/internal/apperror"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig("rpc")
	cfg.ConsecutiveFailures = 2
	cfg.Timeout = time.Minute
	cb := New[int](cfg)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected underlying error, got %v", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (int, error) {
		called = true
		return 1, nil
	})
	if called {
		t.Error("expected open breaker to short-circuit")
	}
	if apperror.GetCode(err) != apperror.CodeCircuitOpen {
		t.Errorf("expected CIRCUIT_OPEN, got %v", err)
	}
}

func TestCircuitBreaker_IsSuccessfulIgnoresDomainErrors(t *testing.T) {
	cfg := DefaultConfig("gateway")
	cfg.ConsecutiveFailures = 1
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || apperror.HasCode(err, apperror.CodeVenueInvocationFailed)
	}
	cb := New[struct{}](cfg)

	rejected := apperror.New(apperror.CodeVenueInvocationFailed)
	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (struct{}, error) { return struct{}{}, rejected })
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed state, got %s", cb.State())
	}
}

func TestCircuitBreaker_PassesResult(t *testing.T) {
	cb := New[string](DefaultConfig("ok"))
	got, err := cb.Execute(func() (string, error) { return "fine", nil })
	if err != nil || got != "fine" {
		t.Errorf("expected (fine, nil), got (%q, %v)", got, err)
	}
	if cb.Name() != "ok" {
		t.Errorf("expected name ok, got %s", cb.Name())
	}
}
