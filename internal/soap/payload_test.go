package soap

import (
	"testing"

	"github.com/pitabwire/sonoctl/model"
)

func volumeSpec() model.OperationSpec {
	return model.OperationSpec{
		Name:    "SetVolume",
		Action:  "SetVolume",
		Service: "RenderingControl",
		Fields: []model.FieldSpec{
			{Name: "instance_id", Kind: model.KindUint, Required: true, WireName: "InstanceID"},
			{Name: "channel", Kind: model.KindString, Required: true, WireName: "Channel"},
			{Name: "desired_volume", Kind: model.KindUint, Required: true, WireName: "DesiredVolume"},
		},
	}
}

func TestBuildPayloadOrderAndDefaults(t *testing.T) {
	entries, err := BuildPayload(volumeSpec(), model.ParameterMap{
		"channel":        "Master",
		"desired_volume": 25,
	})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := []model.PayloadEntry{
		{WireName: "InstanceID", Value: "0"},
		{WireName: "Channel", Value: "Master"},
		{WireName: "DesiredVolume", Value: "25"},
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestBuildPayloadExplicitInstanceID(t *testing.T) {
	entries, err := BuildPayload(volumeSpec(), model.ParameterMap{
		"instance_id":    3,
		"channel":        "Master",
		"desired_volume": "10",
	})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if entries[0].Value != "3" {
		t.Errorf("instance_id = %q, want 3", entries[0].Value)
	}
}

func TestBuildPayloadMissingRequired(t *testing.T) {
	_, err := BuildPayload(volumeSpec(), model.ParameterMap{"channel": "Master"})
	callErr, ok := err.(*model.CallError)
	if !ok {
		t.Fatalf("expected *model.CallError, got %T", err)
	}
	if callErr.Code != model.ErrMissingParameter {
		t.Errorf("code = %q, want %q", callErr.Code, model.ErrMissingParameter)
	}
}

func TestBuildPayloadOptionalOmitted(t *testing.T) {
	spec := model.OperationSpec{
		Name: "ConfigureSleepTimer",
		Fields: []model.FieldSpec{
			{Name: "instance_id", Kind: model.KindUint, Required: true, WireName: "InstanceID"},
			{Name: "new_sleep_timer_duration", Kind: model.KindString, Required: false, WireName: "NewSleepTimerDuration"},
		},
	}
	entries, err := BuildPayload(spec, model.ParameterMap{})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only instance_id, got %d entries", len(entries))
	}
}

func TestBoolCoercion(t *testing.T) {
	spec := model.OperationSpec{
		Fields: []model.FieldSpec{
			{Name: "desired_mute", Kind: model.KindBool, Required: true, WireName: "DesiredMute"},
		},
	}

	cases := []struct {
		in   any
		want string
	}{
		{true, "1"},
		{false, "0"},
		{"yes", "1"},
		{"TRUE", "1"},
		{"1", "1"},
		{1, "1"},
		{"no", "0"},
		{"false", "0"},
		{0, "0"},
		{"anything else", "0"},
	}
	for _, tc := range cases {
		entries, err := BuildPayload(spec, model.ParameterMap{"desired_mute": tc.in})
		if err != nil {
			t.Errorf("BuildPayload(%v): %v", tc.in, err)
			continue
		}
		if entries[0].Value != tc.want {
			t.Errorf("bool coercion of %v = %q, want %q", tc.in, entries[0].Value, tc.want)
		}
	}
}

func TestIntCoercion(t *testing.T) {
	spec := model.OperationSpec{
		Fields: []model.FieldSpec{
			{Name: "adjustment", Kind: model.KindInt, Required: true, WireName: "Adjustment"},
		},
	}

	entries, err := BuildPayload(spec, model.ParameterMap{"adjustment": -5})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if entries[0].Value != "-5" {
		t.Errorf("value = %q, want -5", entries[0].Value)
	}

	entries, err = BuildPayload(spec, model.ParameterMap{"adjustment": "-7"})
	if err != nil {
		t.Fatalf("BuildPayload string: %v", err)
	}
	if entries[0].Value != "-7" {
		t.Errorf("value = %q, want -7", entries[0].Value)
	}
}

func TestUintRejectsNegativeAndJunk(t *testing.T) {
	spec := model.OperationSpec{
		Fields: []model.FieldSpec{
			{Name: "desired_volume", Kind: model.KindUint, Required: true, WireName: "DesiredVolume"},
		},
	}

	for _, in := range []any{-1, "-3", "abc", 2.5, struct{}{}} {
		_, err := BuildPayload(spec, model.ParameterMap{"desired_volume": in})
		callErr, ok := err.(*model.CallError)
		if !ok {
			t.Errorf("value %v: expected *model.CallError, got %T", in, err)
			continue
		}
		if callErr.Code != model.ErrInvalidType {
			t.Errorf("value %v: code = %q, want %q", in, callErr.Code, model.ErrInvalidType)
		}
	}
}

func TestStringEscaping(t *testing.T) {
	spec := model.OperationSpec{
		Fields: []model.FieldSpec{
			{Name: "current_uri", Kind: model.KindString, Required: true, WireName: "CurrentURI"},
		},
	}
	entries, err := BuildPayload(spec, model.ParameterMap{
		"current_uri": `x-rincon:RINCON_1?a=<b>&c="d"`,
	})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	want := "x-rincon:RINCON_1?a=&lt;b&gt;&amp;c=&quot;d&quot;"
	if entries[0].Value != want {
		t.Errorf("escaped value = %q, want %q", entries[0].Value, want)
	}
}

func TestStringifyNonString(t *testing.T) {
	spec := model.OperationSpec{
		Fields: []model.FieldSpec{
			{Name: "target", Kind: model.KindString, Required: true, WireName: "Target"},
		},
	}
	entries, err := BuildPayload(spec, model.ParameterMap{"target": 42})
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if entries[0].Value != "42" {
		t.Errorf("value = %q, want 42", entries[0].Value)
	}
}
