package soap

import (
	"fmt"
	"strings"

	"github.com/pitabwire/sonoctl/model"
)

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	encodingNS = "http://schemas.xmlsoap.org/soap/encoding/"
)

// Envelope wraps ordered payload entries in the SOAP 1.1 envelope for the
// given action and service namespace. Wire values are already escaped by the
// payload builder.
func Envelope(serviceURI, action string, payload []model.PayloadEntry) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	fmt.Fprintf(&b, `<s:Envelope xmlns:s="%s" s:encodingStyle="%s">`, envelopeNS, encodingNS)
	b.WriteString("<s:Body>")
	fmt.Fprintf(&b, `<u:%s xmlns:u="%s">`, action, serviceURI)
	for _, entry := range payload {
		fmt.Fprintf(&b, "<%s>%s</%s>", entry.WireName, entry.Value, entry.WireName)
	}
	fmt.Fprintf(&b, "</u:%s>", action)
	b.WriteString("</s:Body>")
	b.WriteString("</s:Envelope>")
	return b.String()
}

// ActionHeader returns the SOAPACTION header value for an action. The action
// string must be the same one used by Envelope; the device rejects requests
// where header and body action disagree.
func ActionHeader(serviceURI, action string) string {
	return fmt.Sprintf("%q", serviceURI+"#"+action)
}
