package catalog

import "github.com/pitabwire/sonoctl/model"

// DefaultServices returns the built-in service registry: UPnP control
// endpoint and namespace URI per service. Operations declaring a service not
// present here fail with UNKNOWN_SERVICE unless configuration adds an entry.
func DefaultServices() map[string]model.ServiceInfo {
	return map[string]model.ServiceInfo{
		"AVTransport": {
			Endpoint:   "MediaRenderer/AVTransport/Control",
			ServiceURI: "urn:schemas-upnp-org:service:AVTransport:1",
		},
		"RenderingControl": {
			Endpoint:   "MediaRenderer/RenderingControl/Control",
			ServiceURI: "urn:schemas-upnp-org:service:RenderingControl:1",
		},
		"GroupRenderingControl": {
			Endpoint:   "MediaRenderer/GroupRenderingControl/Control",
			ServiceURI: "urn:schemas-upnp-org:service:GroupRenderingControl:1",
		},
		"ZoneGroupTopology": {
			Endpoint:   "ZoneGroupTopology/Control",
			ServiceURI: "urn:schemas-upnp-org:service:ZoneGroupTopology:1",
		},
		"DeviceProperties": {
			Endpoint:   "DeviceProperties/Control",
			ServiceURI: "urn:schemas-upnp-org:service:DeviceProperties:1",
		},
		"AlarmClock": {
			Endpoint:   "AlarmClock/Control",
			ServiceURI: "urn:schemas-upnp-org:service:AlarmClock:1",
		},
		"MusicServices": {
			Endpoint:   "MusicServices/Control",
			ServiceURI: "urn:schemas-upnp-org:service:MusicServices:1",
		},
	}
}
