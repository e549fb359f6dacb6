// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package input

import (
	"testing"

	"github.com/pkg/errors"
)

func TestKeyNames(t *testing.T) {
	for k := KeyUnknown; k < keyCount; k++ {
		if keyNames[k] == "" {
			t.Fatalf("keyNames[%d] is empty", k)
		}
	}
	if s := Key(-1).String(); s != "Unknown" {
		t.Fatalf("Key(-1).String\nhave %s\nwant Unknown", s)
	}
	if s := keyCount.String(); s != "Unknown" {
		t.Fatalf("keyCount.String\nhave %s\nwant Unknown", s)
	}
}

func TestParseKey(t *testing.T) {
	for k := Key0; k < keyCount; k++ {
		if x, err := ParseKey(k.String()); x != k || err != nil {
			t.Fatalf("ParseKey(%q)\nhave %v, %v\nwant %v, nil", k.String(), x, err, k)
		}
	}
	if x, err := ParseKey("padplus"); x != KeyPadPlus || err != nil {
		t.Fatalf("ParseKey(\"padplus\")\nhave %v, %v\nwant %v, nil", x, err, KeyPadPlus)
	}
	for _, s := range [...]string{"", "Unknown", "F13", "+"} {
		if x, err := ParseKey(s); x != KeyUnknown || !errors.Is(err, ErrUnknownKey) {
			t.Fatalf("ParseKey(%q)\nhave %v, %v\nwant %v, %v", s, x, err, KeyUnknown, ErrUnknownKey)
		}
	}

	var k Key
	if err := k.UnmarshalText([]byte("Esc")); err != nil || k != KeyEsc {
		t.Fatalf("Key.UnmarshalText\nhave %v, %v\nwant %v, nil", k, err, KeyEsc)
	}
	if b, _ := KeyF6.MarshalText(); string(b) != "F6" {
		t.Fatalf("Key.MarshalText\nhave %s\nwant F6", b)
	}
}
