package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("ServerConfig")
	cv.Required("Addr", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}
	if !strings.HasPrefix(cv.Validate().Error(), "ServerConfig.Addr:") {
		t.Errorf("unexpected message: %v", cv.Validate())
	}

	if NewConfigValidator("ServerConfig").Required("Addr", ":8080").HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		run     func(*ConfigValidator)
		wantErr bool
	}{
		{"positive ok", func(cv *ConfigValidator) { cv.Positive("Workers", 4) }, false},
		{"positive zero", func(cv *ConfigValidator) { cv.Positive("Workers", 0) }, true},
		{"range ok", func(cv *ConfigValidator) { cv.RangeInt("Palette", 30, 1, 256) }, false},
		{"range low", func(cv *ConfigValidator) { cv.RangeInt("Palette", 0, 1, 256) }, true},
		{"range high", func(cv *ConfigValidator) { cv.RangeInt("Palette", 300, 1, 256) }, true},
		{"duration ok", func(cv *ConfigValidator) {
			cv.RangeDuration("ReadTimeout", 5*time.Second, time.Second, time.Minute)
		}, false},
		{"duration high", func(cv *ConfigValidator) {
			cv.RangeDuration("ReadTimeout", time.Hour, time.Second, time.Minute)
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Config")
			tt.run(cv)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", cv.HasErrors(), tt.wantErr, cv.Errors())
			}
		})
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}

	if NewConfigValidator("LogConfig").OneOf("Level", "info", levels).HasErrors() {
		t.Error("Expected no error for allowed value")
	}
	if !NewConfigValidator("LogConfig").OneOf("Level", "verbose", levels).HasErrors() {
		t.Error("Expected error for disallowed value")
	}
}

func TestConfigValidator_NamespaceBinding(t *testing.T) {
	cv := NewConfigValidator("Namespaces").
		Prefix("ex", "ex").
		NamespaceIRI("ex", "http://example.org/").
		Prefix("bad", "1bad").
		NamespaceIRI("rel", "example.org/").
		NamespaceIRI("open", "http://example.org/thing")

	if got := len(cv.Errors()); got != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", got, cv.Errors())
	}
}

func TestConfigValidator_CustomWrapsCause(t *testing.T) {
	sentinel := errors.New("too many colours")
	err := NewConfigValidator("ViewConfig").
		Custom("Palette", func() error { return sentinel }).
		Validate()

	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("ServerConfig")
	cv.When(false, func(v *ConfigValidator) { v.Required("Addr", "") })
	if cv.HasErrors() {
		t.Error("When(false) should skip validations")
	}
	cv.When(true, func(v *ConfigValidator) { v.Required("Addr", "") })
	if !cv.HasErrors() {
		t.Error("When(true) should apply validations")
	}
}

func TestConfigValidator_ValidateJoinsErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	err := NewConfigValidator("Config").
		Custom("A", func() error { return first }).
		Custom("B", func() error { return second }).
		Validate()

	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("expected both causes, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("expected error count in message, got %v", err)
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", ":8080"); got != ":8080" {
		t.Errorf("DefaultOr(\"\") = %q", got)
	}
	if got := DefaultOr(":9090", ":8080"); got != ":9090" {
		t.Errorf("DefaultOr(\":9090\") = %q", got)
	}
	if got := DefaultOrInt(-1, 4); got != 4 {
		t.Errorf("DefaultOrInt(-1) = %d", got)
	}
	if got := DefaultOrDuration(0, time.Second); got != time.Second {
		t.Errorf("DefaultOrDuration(0) = %v", got)
	}
}

type selfChecking struct{ err error }

func (s selfChecking) Validate() error { return s.err }

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(selfChecking{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateConfig(selfChecking{err: errors.New("bad")}); err == nil {
		t.Error("expected error")
	}
	if err := ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}
