package colorize

import (
	"strings"
	"testing"
)

const listing = "03800000  e3a00001  mov r0, #1\n03800004  e1a0f00e  mov pc, lr\n"

func TestColorizeListingDisabled(t *testing.T) {
	t.Setenv("ROXTRACT_NO_COLOR", "1")
	if got := ColorizeListing(listing); got != listing {
		t.Errorf("ColorizeListing with colours disabled = %q", got)
	}
}

func TestColorizeListingKeepsText(t *testing.T) {
	t.Setenv("ROXTRACT_NO_COLOR", "")
	got := ColorizeListing(listing)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("ColorizeListing did not add colour: %q", got)
	}
	if plain := StripANSI(got); plain != listing {
		t.Errorf("StripANSI(ColorizeListing()) = %q, want %q", plain, listing)
	}
}

func TestIsHex(t *testing.T) {
	tests := map[string]bool{"03800000": true, "DEADbeef": true, "": false, "0x10": false, "mov": false}
	for in, want := range tests {
		if got := isHex(in); got != want {
			t.Errorf("isHex(%q) = %v, want %v", in, got, want)
		}
	}
}
