package di

import "testing"

type greeter struct{ name string }

func TestToken_LazySingleton(t *testing.T) {
	c := NewContainer()
	c.Register("name", "router")

	builds := 0
	tok := NewToken[*greeter]("greeter")
	RegisterToken(c, tok, func(sr ServiceRegistry) *greeter {
		builds++
		return &greeter{name: sr.Get("name").(string)}
	})

	if builds != 0 {
		t.Fatalf("factory ran before first Get")
	}

	first := GetToken(c, tok)
	second := GetToken(c, tok)

	if first != second {
		t.Error("expected the same instance on repeated Get")
	}
	if builds != 1 {
		t.Errorf("expected one build, got %d", builds)
	}
	if first.name != "router" {
		t.Errorf("expected dependency to be resolved, got %q", first.name)
	}
}

func TestGet_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown service")
		}
	}()
	NewContainer().Get("missing")
}
