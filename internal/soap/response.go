package soap

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pitabwire/sonoctl/model"
)

// excerptLen bounds how much of an unparseable body is surfaced in messages.
const excerptLen = 200

// ParseSuccess extracts the response field mapping for action from a body
// returned with a successful HTTP status. The reported bool is false when no
// response element was located anywhere; the call still counts as successful
// with an empty mapping, since some operations legitimately return no data.
func ParseSuccess(body []byte, action string, httpStatus int) (map[string]string, bool, error) {
	root, err := ParseDocument(body)
	if err != nil {
		return nil, false, model.NewMalformedResponseError(httpStatus, excerpt(body))
	}

	responseName := action + "Response"

	respElem := root.Find(responseName)
	if respElem == nil {
		if bodyElem := root.Find("Body"); bodyElem != nil {
			respElem = bodyElem.Child(responseName)
		}
	}
	if respElem == nil {
		return map[string]string{}, false, nil
	}

	// Only immediate children become result fields; deeper structure stays
	// opaque in the child's text.
	fields := make(map[string]string, len(respElem.Children))
	for _, child := range respElem.Children {
		fields[child.Name] = child.Text
	}
	return fields, true, nil
}

// ParseFault interprets a body returned with an HTTP error status as a
// SOAP/UPnP fault. It always produces a failure; a body that does not parse
// as markup yields one carrying the raw status and a body excerpt.
func ParseFault(body []byte, httpStatus int) *model.CallError {
	root, err := ParseDocument(body)
	if err != nil {
		return model.NewMalformedResponseError(httpStatus, excerpt(body))
	}

	faultCode := root.FindText("faultcode")
	faultString := root.FindText("faultstring")
	errorCode := root.FindText("errorCode")
	errorDesc := root.FindText("errorDescription")

	message := errorDesc
	if message == "" {
		message = faultString
	}
	if message == "" {
		message = "HTTP " + strconv.Itoa(httpStatus)
	}

	code := httpStatus
	if n, err := strconv.Atoi(strings.TrimSpace(errorCode)); err == nil {
		code = n
	}

	return model.NewProtocolFaultError(message, code, faultCode)
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= excerptLen {
		return s
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := excerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
