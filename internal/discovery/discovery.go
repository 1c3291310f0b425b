// Package discovery locates devices on the local network via SSDP and reads
// their description documents.
package discovery

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pitabwire/sonoctl/internal/soap"
)

const (
	multicastAddr = "239.255.255.250:1900"
	searchTarget  = "urn:schemas-upnp-org:device:ZonePlayer:1"
	defaultPort   = 1400

	maxDatagram       = 2048
	maxDescriptionLen = 1 << 20
)

// Device is a discovered player.
type Device struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RoomName  string `json:"room_name"`
	ModelName string `json:"model_name"`
	IPAddress string `json:"ip_address"`
	Port      int    `json:"port"`
}

// ssdpResponse holds the headers of one M-SEARCH reply.
type ssdpResponse struct {
	location string
	st       string
	usn      string
	server   string
}

// Discoverer finds devices by multicast search. A zero timeout uses one
// second; the timeout bounds the listen window, not each device fetch.
type Discoverer struct {
	httpClient *http.Client
	log        *zap.Logger
}

func New(logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        logger,
	}
}

// Discover sends one M-SEARCH, collects replies until the timeout elapses,
// and resolves each distinct device's description. Devices that fail to
// describe themselves are skipped, not fatal.
func (d *Discoverer) Discover(ctx context.Context, timeout time.Duration) ([]Device, error) {
	if timeout <= 0 {
		timeout = time.Second
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("discovery: binding socket: %w", err)
	}
	defer conn.Close()

	dst, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolving multicast address: %w", err)
	}

	request := "M-SEARCH * HTTP/1.1\r\n" +
		"HOST: " + multicastAddr + "\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 2\r\n" +
		"ST: " + searchTarget + "\r\n" +
		"USER-AGENT: sonoctl/1.0 UPnP/1.0\r\n" +
		"\r\n"
	if _, err := conn.WriteTo([]byte(request), dst); err != nil {
		return nil, fmt.Errorf("discovery: sending search: %w", err)
	}

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetReadDeadline(deadline)

	var responses []ssdpResponse
	buf := make([]byte, maxDatagram)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				break
			}
			if ctx.Err() != nil {
				break
			}
			return nil, fmt.Errorf("discovery: reading replies: %w", err)
		}
		if resp, ok := parseResponse(string(buf[:n])); ok {
			responses = append(responses, resp)
		}
	}

	return d.resolve(ctx, responses), nil
}

// resolve fetches descriptions for plausible replies and deduplicates the
// result by device ID.
func (d *Discoverer) resolve(ctx context.Context, responses []ssdpResponse) []Device {
	seenLocations := make(map[string]bool)
	seenIDs := make(map[string]bool)
	var devices []Device

	for _, resp := range responses {
		if seenLocations[resp.location] {
			continue
		}
		seenLocations[resp.location] = true

		if !isLikelyPlayer(resp) {
			continue
		}

		dev, err := d.describe(ctx, resp.location)
		if err != nil {
			d.log.Debug("skipping undescribable device",
				zap.String("location", resp.location),
				zap.Error(err))
			continue
		}
		if seenIDs[dev.ID] {
			continue
		}
		seenIDs[dev.ID] = true
		devices = append(devices, dev)
	}

	return devices
}

// describe fetches and parses one description document.
func (d *Discoverer) describe(ctx context.Context, location string) (Device, error) {
	var dev Device

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return dev, err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return dev, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dev, fmt.Errorf("description fetch returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptionLen))
	if err != nil {
		return dev, err
	}

	root, err := soap.ParseDocument(body)
	if err != nil {
		return dev, err
	}

	host, port := hostPortFromLocation(location)
	dev = Device{
		ID:        strings.TrimPrefix(root.FindText("UDN"), "uuid:"),
		Name:      root.FindText("friendlyName"),
		RoomName:  root.FindText("roomName"),
		ModelName: root.FindText("modelName"),
		IPAddress: host,
		Port:      port,
	}
	if dev.ID == "" || dev.IPAddress == "" {
		return dev, fmt.Errorf("description missing identity fields")
	}
	return dev, nil
}

// parseResponse reads the headers of one reply datagram. Replies missing any
// of LOCATION, ST, or USN are ignored.
func parseResponse(text string) (ssdpResponse, bool) {
	var resp ssdpResponse

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "LOCATION":
			resp.location = value
		case "ST":
			resp.st = value
		case "USN":
			resp.usn = value
		case "SERVER":
			resp.server = value
		}
	}

	if resp.location == "" || resp.st == "" || resp.usn == "" {
		return resp, false
	}
	return resp, true
}

// isLikelyPlayer filters replies before the description fetch. Any of the
// three markers qualifies.
func isLikelyPlayer(resp ssdpResponse) bool {
	if strings.Contains(resp.st, "ZonePlayer") {
		return true
	}
	if strings.Contains(resp.usn, "RINCON") {
		return true
	}
	return strings.Contains(strings.ToLower(resp.server), "sonos")
}

// hostPortFromLocation extracts the device address from a description URL,
// defaulting the port when the URL omits it.
func hostPortFromLocation(location string) (string, int) {
	u, err := url.Parse(location)
	if err != nil {
		return "", defaultPort
	}
	port := defaultPort
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	return u.Hostname(), port
}
