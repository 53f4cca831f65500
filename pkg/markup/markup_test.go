package markup

import (
	"strings"
	"testing"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Wirtual", "Wirtual"},
		{"empty", "", ""},
		{"club tag", "$F63W$F971$FCBS$FFFP", "W1SP"},
		{"styles", "$o$iBold$z Italic", "Bold Italic"},
		{"mixed case", "$FFFwhite$Wwide", "whitewide"},
		{"short color", "$0fxyz", "xyz"},
		{"link with target", "$l[https://trackmania.io]site$l", "site"},
		{"bare link", "$hclick$h", "click"},
		{"escaped dollars", "cost $$5", "cost 5"},
		{"unknown code kept", "$x marks", "$x marks"},
		{"triple dollar unknown kept", "a$$$x", "a$$$x"},
		{"triple dollar code", "$$$ofoo", "foo"},
		{"trailing dollar", "end$", "end$"},
		{"alignment codes", "$<inner$>outer", "innerouter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripIdempotent(t *testing.T) {
	inputs := []string{
		"$F63W$F971$FCBS$FFFP",
		"$o$$o",
		"$x$o",
		"$0$$$x",
		"$fff$$$x",
		"$l[x]$$$l",
		"$$$$",
		"$s$n$m$t$g",
		"a$$$x$ob",
		"$$$",
	}

	for _, in := range inputs {
		once := Strip(in)
		if twice := Strip(once); twice != once {
			t.Errorf("Strip not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestStripRemovesAllCodes(t *testing.T) {
	got := Strip("$F63W$F971$FCBS$FFFP")
	if strings.Contains(got, "$") {
		t.Errorf("Strip left a code: %q", got)
	}
}

func TestStripPtr(t *testing.T) {
	if StripPtr(nil) != nil {
		t.Error("StripPtr(nil) should be nil")
	}
	s := "$oTag"
	if got := StripPtr(&s); got == nil || *got != "Tag" {
		t.Errorf("StripPtr = %v", got)
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
		{-12, "-12"},
	}

	for _, tt := range tests {
		if got := FormatThousands(tt.in); got != tt.want {
			t.Errorf("FormatThousands(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
