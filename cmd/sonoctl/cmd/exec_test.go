package cmd

import "testing"

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{
		"channel=Master",
		"desired_volume=25",
		"desired_mute=true",
		"crossfade=false",
		"target=0:02:30",
		"empty=",
	})
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}

	if params["channel"] != "Master" {
		t.Errorf("channel = %v", params["channel"])
	}
	if params["desired_volume"] != 25 {
		t.Errorf("desired_volume = %v (%T), want int 25", params["desired_volume"], params["desired_volume"])
	}
	if params["desired_mute"] != true {
		t.Errorf("desired_mute = %v, want true", params["desired_mute"])
	}
	if params["crossfade"] != false {
		t.Errorf("crossfade = %v, want false", params["crossfade"])
	}
	// Colons keep the value a string.
	if params["target"] != "0:02:30" {
		t.Errorf("target = %v", params["target"])
	}
	if params["empty"] != "" {
		t.Errorf("empty = %v, want empty string", params["empty"])
	}
}

func TestParseParamsRejectsMalformed(t *testing.T) {
	for _, pair := range []string{"novalue", "=orphan"} {
		if _, err := parseParams([]string{pair}); err == nil {
			t.Errorf("parseParams(%q) should fail", pair)
		}
	}
}

func TestInferValueNegativeNumbers(t *testing.T) {
	if inferValue("-5") != -5 {
		t.Errorf("inferValue(-5) = %v, want int -5", inferValue("-5"))
	}
}
