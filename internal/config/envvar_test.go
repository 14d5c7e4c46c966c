package config

import "testing"

func TestEnvEnabled(t *testing.T) {
	cases := map[string]bool{
		"1":      true,
		"true":   true,
		" TRUE ": true,
		"0":      false,
		"false":  false,
		"yes":    false,
		"":       false,
	}
	for value, want := range cases {
		t.Setenv(EnvEphemeral, value)
		if got := EnvEnabled(EnvEphemeral); got != want {
			t.Errorf("EnvEnabled with %q = %v, want %v", value, got, want)
		}
	}
}
