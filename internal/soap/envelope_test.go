package soap

import (
	"strings"
	"testing"

	"github.com/pitabwire/sonoctl/model"
)

func TestEnvelope(t *testing.T) {
	payload := []model.PayloadEntry{
		{WireName: "InstanceID", Value: "0"},
		{WireName: "Speed", Value: "1"},
	}
	env := Envelope("urn:schemas-upnp-org:service:AVTransport:1", "Play", payload)

	for _, want := range []string{
		`<?xml version="1.0" encoding="utf-8"?>`,
		`xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"`,
		`s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/"`,
		`<u:Play xmlns:u="urn:schemas-upnp-org:service:AVTransport:1">`,
		`<InstanceID>0</InstanceID><Speed>1</Speed>`,
		`</u:Play></s:Body></s:Envelope>`,
	} {
		if !strings.Contains(env, want) {
			t.Errorf("envelope missing %q\n%s", want, env)
		}
	}

	// The envelope itself must parse, with the payload in order.
	root, err := ParseDocument([]byte(env))
	if err != nil {
		t.Fatalf("envelope does not parse: %v", err)
	}
	action := root.Find("Play")
	if action == nil {
		t.Fatal("action element not found")
	}
	if len(action.Children) != 2 || action.Children[0].Name != "InstanceID" || action.Children[1].Name != "Speed" {
		t.Errorf("payload children = %+v", action.Children)
	}
}

func TestEnvelopeEmptyPayload(t *testing.T) {
	env := Envelope("urn:schemas-upnp-org:service:AVTransport:1", "Pause", nil)
	if !strings.Contains(env, `<u:Pause xmlns:u="urn:schemas-upnp-org:service:AVTransport:1"></u:Pause>`) {
		t.Errorf("empty-payload envelope malformed:\n%s", env)
	}
}

func TestActionHeader(t *testing.T) {
	got := ActionHeader("urn:schemas-upnp-org:service:RenderingControl:1", "SetVolume")
	want := `"urn:schemas-upnp-org:service:RenderingControl:1#SetVolume"`
	if got != want {
		t.Errorf("ActionHeader = %s, want %s", got, want)
	}
}
