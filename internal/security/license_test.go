package security

import "testing"

func TestNormalizeLicense(t *testing.T) {
	if got := NormalizeLicense("   "); got != "" {
		t.Errorf("NormalizeLicense(blank) = %q, want empty", got)
	}
	if got := NormalizeLicense(" MIT "); got != "MIT" {
		t.Errorf("NormalizeLicense(MIT) = %q, want MIT", got)
	}
	if got := NormalizeLicense("MIT OR Apache-2.0"); got == "" {
		t.Error("NormalizeLicense should never drop a license")
	}
}
