package dfalex

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig[string]().Validate(); err != nil {
		t.Fatalf("DefaultConfig should validate cleanly: %v", err)
	}
}

func TestValidateRejectsNonPositiveMaxStates(t *testing.T) {
	c := DefaultConfig[string]()
	c.MaxStates = 0
	err := c.Validate()
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got %v (%T)", err, err)
	}
	if cfgErr.Field != "MaxStates" {
		t.Fatalf("Field = %q, want MaxStates", cfgErr.Field)
	}
}

func TestValidateRejectsExcessiveMaxStates(t *testing.T) {
	c := DefaultConfig[string]()
	c.MaxStates = 2_000_000
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for MaxStates above the ceiling")
	}
}

func TestValidateRejectsNonPositiveMaxPatterns(t *testing.T) {
	c := DefaultConfig[string]()
	c.MaxPatterns = -1
	err := c.Validate()
	cfgErr, ok := err.(*ConfigError)
	if !ok || cfgErr.Field != "MaxPatterns" {
		t.Fatalf("expected MaxPatterns ConfigError, got %v", err)
	}
}

func TestValidateRejectsZeroNMMCapacityWhenEnabled(t *testing.T) {
	c := DefaultConfig[string]()
	c.EnableNMM = true
	c.NMMCapacity = 0
	err := c.Validate()
	cfgErr, ok := err.(*ConfigError)
	if !ok || cfgErr.Field != "NMMCapacity" {
		t.Fatalf("expected NMMCapacity ConfigError, got %v", err)
	}
}

func TestValidateAllowsZeroNMMCapacityWhenDisabled(t *testing.T) {
	c := DefaultConfig[string]()
	c.EnableNMM = false
	c.NMMCapacity = 0
	if err := c.Validate(); err != nil {
		t.Fatalf("NMMCapacity should be irrelevant when EnableNMM is false: %v", err)
	}
}
